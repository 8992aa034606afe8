package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moviecatalog/movie"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovieModel keeps the loose movie document as jsonb and copies the fields
// listings filter and sort on into their own columns.
type MovieModel struct {
	ID          int64          `gorm:"primaryKey;autoIncrement:false"`
	Title       string         `gorm:"not null;default:''"`
	Popularity  float64        `gorm:"not null;default:0"`
	VoteAverage *float64
	PosterURL   string         `gorm:"not null;default:''"`
	GenreNames  pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Document    movie.Document `gorm:"type:jsonb;serializer:json;not null"`
}

func (MovieModel) TableName() string {
	return "movies"
}

func toMovieModel(d movie.Document) MovieModel {
	model := MovieModel{
		ID:         d.ID(),
		GenreNames: pq.StringArray{},
		Document:   d,
	}
	model.Title, _ = d["title"].(string)
	model.PosterURL, _ = d["poster_url"].(string)
	if f, ok := toFloat(d["popularity"]); ok {
		model.Popularity = f
	}
	if f, ok := toFloat(d["vote_average"]); ok {
		model.VoteAverage = &f
	}
	if genres, ok := d["genres"].([]any); ok {
		for _, g := range genres {
			m, ok := g.(map[string]any)
			if !ok {
				continue
			}
			if name, ok := m["name"].(string); ok {
				model.GenreNames = append(model.GenreNames, name)
			}
		}
	}
	return model
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// MovieRepository implements [movie.Repository].
type MovieRepository struct {
	table
}

func NewMovieRepository(db *gorm.DB, timeout time.Duration) *MovieRepository {
	return &MovieRepository{table: newTable(db, MovieModel{}.TableName(), timeout)}
}

// filter mirrors movie.ListQuery.Matches with LIKE-escaped user input.
func filter(tx *gorm.DB, q movie.ListQuery) *gorm.DB {
	switch q.Poster {
	case movie.PosterPrefix:
		tx = tx.Where("poster_url <> '' AND poster_url LIKE ?", escapeLike(q.PosterPrefix)+"%")
	default:
		tx = tx.Where("poster_url <> ''")
	}
	if q.Text != "" {
		tx = tx.Where("title ILIKE ?", "%"+escapeLike(q.Text)+"%")
	}
	if q.Genre != "" {
		tx = tx.Where("EXISTS (SELECT 1 FROM unnest(genre_names) AS g WHERE g ILIKE ?)", "%"+escapeLike(q.Genre)+"%")
	}
	if q.MinRating != nil {
		tx = tx.Where("vote_average >= ?", *q.MinRating)
	}
	return tx
}

func (r *MovieRepository) Count(ctx context.Context, q movie.ListQuery) (n int64, err error) {
	defer r.observe("count", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	if err = filter(db.Model(&MovieModel{}), q).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("postgres: count movies: %w", err)
	}
	return n, nil
}

func (r *MovieRepository) Find(ctx context.Context, q movie.ListQuery) (_ []movie.Document, err error) {
	defer r.observe("find", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	var models []MovieModel
	err = filter(db, q).
		Order("popularity DESC, id ASC").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: find movies: %w", err)
	}

	docs := make([]movie.Document, len(models))
	for i, m := range models {
		docs[i] = m.Document
	}
	return docs, nil
}

func (r *MovieRepository) GetByID(ctx context.Context, id int64) (_ movie.Document, err error) {
	defer r.observe("find_one", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	var model MovieModel
	if err = db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, movie.ErrMovieNotFound
		}
		return nil, fmt.Errorf("postgres: get movie %d: %w", id, err)
	}
	return model.Document, nil
}

func (r *MovieRepository) Create(ctx context.Context, d movie.Document) (err error) {
	defer r.observe("insert", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	model := toMovieModel(d)
	if err = db.Create(&model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return movie.ErrMovieExists
		}
		return fmt.Errorf("postgres: insert movie: %w", err)
	}
	return nil
}

func (r *MovieRepository) Replace(ctx context.Context, id int64, d movie.Document) (err error) {
	defer r.observe("replace", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	model := toMovieModel(d)
	result := db.Model(&MovieModel{}).Where("id = ?", id).Select("*").Updates(&model)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return movie.ErrMovieExists
		}
		return fmt.Errorf("postgres: replace movie %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("delete", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	result := db.Where("id = ?", id).Delete(&MovieModel{})
	if result.Error != nil {
		return fmt.Errorf("postgres: delete movie %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) Upsert(ctx context.Context, d movie.Document) (err error) {
	defer r.observe("upsert", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	model := toMovieModel(d)
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("postgres: upsert movie %d: %w", model.ID, err)
	}
	return nil
}
