package review

import (
	"context"
	"strings"
	"time"

	"moviecatalog/movie"
)

type Service interface {
	CreateReview(ctx context.Context, r Review) (Review, error)
	ListReviews(ctx context.Context, movieID int64, page, limit int) (Page, error)
	GetReview(ctx context.Context, id string) (Review, error)
	UpdateReview(ctx context.Context, id, userID string, rating int, comment string) (Review, error)
	DeleteReview(ctx context.Context, id, userID string) error
}

// Repository is the review store port. Update and Delete must match on
// both the review id and the owning user id; a review owned by someone
// else is indistinguishable from a missing one and yields ErrReviewNotFound.
type Repository interface {
	Create(ctx context.Context, r Review) (Review, error)
	CountByMovie(ctx context.Context, movieID int64) (int64, error)
	ListByMovie(ctx context.Context, movieID int64, offset, limit int) ([]Review, error)
	GetByID(ctx context.Context, id string) (Review, error)
	Update(ctx context.Context, r Review) (Review, error)
	Delete(ctx context.Context, id, userID string) error
}

type MovieFinder interface {
	GetMovie(ctx context.Context, id int64) (movie.Document, error)
}

type Usecase struct {
	r      Repository
	movies MovieFinder
	now    func() time.Time
}

func NewUsecase(r Repository, movies MovieFinder) *Usecase {
	return &Usecase{
		r:      r,
		movies: movies,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (uc *Usecase) CreateReview(ctx context.Context, r Review) (Review, error) {
	r.Comment = strings.TrimSpace(r.Comment)
	if err := r.Validate(); err != nil {
		return Review{}, err
	}
	if _, err := uc.movies.GetMovie(ctx, r.MovieID); err != nil {
		return Review{}, err
	}

	r.CreatedAt = uc.now()
	r.UpdatedAt = r.CreatedAt
	return uc.r.Create(ctx, r)
}

func (uc *Usecase) ListReviews(ctx context.Context, movieID int64, page, limit int) (Page, error) {
	if movieID <= 0 {
		return Page{}, ErrMovieIDRequired
	}
	page, limit = normalizePaging(page, limit)

	total, err := uc.r.CountByMovie(ctx, movieID)
	if err != nil {
		return Page{}, err
	}

	items := []Review{}
	if offset := movie.Offset(page, limit); int64(offset) < total {
		items, err = uc.r.ListByMovie(ctx, movieID, offset, limit)
		if err != nil {
			return Page{}, err
		}
	}

	return Page{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}

func (uc *Usecase) GetReview(ctx context.Context, id string) (Review, error) {
	if strings.TrimSpace(id) == "" {
		return Review{}, ErrReviewIDRequired
	}
	return uc.r.GetByID(ctx, id)
}

func (uc *Usecase) UpdateReview(ctx context.Context, id, userID string, rating int, comment string) (Review, error) {
	if strings.TrimSpace(id) == "" {
		return Review{}, ErrReviewIDRequired
	}
	if strings.TrimSpace(userID) == "" {
		return Review{}, ErrUserIDRequired
	}
	comment = strings.TrimSpace(comment)
	if err := validateContent(rating, comment); err != nil {
		return Review{}, err
	}

	return uc.r.Update(ctx, Review{
		ID:        id,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		UpdatedAt: uc.now(),
	})
}

func (uc *Usecase) DeleteReview(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return ErrReviewIDRequired
	}
	if strings.TrimSpace(userID) == "" {
		return ErrUserIDRequired
	}
	return uc.r.Delete(ctx, id, userID)
}
