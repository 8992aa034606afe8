package postgres

import (
	"context"
	"fmt"
	"time"

	"moviecatalog/watchlist"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WatchlistItemModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"not null"`
	MovieID   int64     `gorm:"not null"`
	Title     string    `gorm:"not null;default:''"`
	PosterURL string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
}

func (WatchlistItemModel) TableName() string {
	return "watchlist_items"
}

func (m WatchlistItemModel) toItem() watchlist.Item {
	return watchlist.Item{
		ID:        m.ID,
		UserID:    m.UserID,
		MovieID:   m.MovieID,
		Title:     m.Title,
		PosterURL: m.PosterURL,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// WatchlistRepository implements [watchlist.Repository]. A unique
// (user_id, movie_id) constraint rejects a second entry for the same movie.
type WatchlistRepository struct {
	table
}

func NewWatchlistRepository(db *gorm.DB, timeout time.Duration) *WatchlistRepository {
	return &WatchlistRepository{table: newTable(db, WatchlistItemModel{}.TableName(), timeout)}
}

func (r *WatchlistRepository) Create(ctx context.Context, item watchlist.Item) (_ watchlist.Item, err error) {
	defer r.observe("insert", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	model := WatchlistItemModel{
		ID:        uuid.NewString(),
		UserID:    item.UserID,
		MovieID:   item.MovieID,
		Title:     item.Title,
		PosterURL: item.PosterURL,
		CreatedAt: item.CreatedAt.UTC().Truncate(time.Microsecond),
	}
	if err = db.Create(&model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return watchlist.Item{}, watchlist.ErrAlreadyListed
		}
		return watchlist.Item{}, fmt.Errorf("postgres: insert watchlist item: %w", err)
	}
	return model.toItem(), nil
}

func (r *WatchlistRepository) ListByUser(ctx context.Context, userID string) (_ []watchlist.Item, err error) {
	defer r.observe("find", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	var models []WatchlistItemModel
	if err = db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("postgres: list watchlist: %w", err)
	}

	items := make([]watchlist.Item, len(models))
	for i, m := range models {
		items[i] = m.toItem()
	}
	return items, nil
}

// Delete removes the item only when it belongs to userID.
func (r *WatchlistRepository) Delete(ctx context.Context, id, userID string) (err error) {
	if _, err := uuid.Parse(id); err != nil {
		return watchlist.ErrItemNotFound
	}

	defer r.observe("delete", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&WatchlistItemModel{})
	if result.Error != nil {
		return fmt.Errorf("postgres: delete watchlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return watchlist.ErrItemNotFound
	}
	return nil
}
