package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moviecatalog/review"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"not null"`
	MovieID   int64     `gorm:"not null"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

func (m ReviewModel) toReview() review.Review {
	return review.Review{
		ID:        m.ID,
		UserID:    m.UserID,
		MovieID:   m.MovieID,
		Rating:    m.Rating,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// ReviewRepository implements [review.Repository].
type ReviewRepository struct {
	table
}

func NewReviewRepository(db *gorm.DB, timeout time.Duration) *ReviewRepository {
	return &ReviewRepository{table: newTable(db, ReviewModel{}.TableName(), timeout)}
}

func (r *ReviewRepository) Create(ctx context.Context, rv review.Review) (_ review.Review, err error) {
	defer r.observe("insert", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	model := ReviewModel{
		ID:        uuid.NewString(),
		UserID:    rv.UserID,
		MovieID:   rv.MovieID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt.UTC().Truncate(time.Microsecond),
		UpdatedAt: rv.UpdatedAt.UTC().Truncate(time.Microsecond),
	}
	if err = db.Create(&model).Error; err != nil {
		return review.Review{}, fmt.Errorf("postgres: insert review: %w", err)
	}
	return model.toReview(), nil
}

func (r *ReviewRepository) CountByMovie(ctx context.Context, movieID int64) (n int64, err error) {
	defer r.observe("count", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	if err = db.Model(&ReviewModel{}).Where("movie_id = ?", movieID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("postgres: count reviews: %w", err)
	}
	return n, nil
}

func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID int64, offset, limit int) (_ []review.Review, err error) {
	defer r.observe("find", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	var models []ReviewModel
	err = db.Where("movie_id = ?", movieID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: list reviews: %w", err)
	}

	out := make([]review.Review, len(models))
	for i, m := range models {
		out[i] = m.toReview()
	}
	return out, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (_ review.Review, err error) {
	if _, err := uuid.Parse(id); err != nil {
		return review.Review{}, review.ErrReviewNotFound
	}

	defer r.observe("find_one", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	var model ReviewModel
	if err = db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return review.Review{}, review.ErrReviewNotFound
		}
		return review.Review{}, fmt.Errorf("postgres: get review: %w", err)
	}
	return model.toReview(), nil
}

// Update changes rating and comment of a review owned by rv.UserID and
// returns the stored result.
func (r *ReviewRepository) Update(ctx context.Context, rv review.Review) (_ review.Review, err error) {
	if _, err := uuid.Parse(rv.ID); err != nil {
		return review.Review{}, review.ErrReviewNotFound
	}

	defer r.observe("update", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	var model ReviewModel
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ReviewModel{}).
			Where("id = ? AND user_id = ?", rv.ID, rv.UserID).
			Updates(map[string]any{
				"rating":     rv.Rating,
				"comment":    rv.Comment,
				"updated_at": rv.UpdatedAt.UTC().Truncate(time.Microsecond),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return review.ErrReviewNotFound
		}
		return tx.Where("id = ?", rv.ID).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			return review.Review{}, review.ErrReviewNotFound
		}
		return review.Review{}, fmt.Errorf("postgres: update review: %w", err)
	}
	return model.toReview(), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id, userID string) (err error) {
	if _, err := uuid.Parse(id); err != nil {
		return review.ErrReviewNotFound
	}

	defer r.observe("delete", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&ReviewModel{})
	if result.Error != nil {
		return fmt.Errorf("postgres: delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}
