package watchlist

import (
	"context"
	"strings"
	"time"

	"moviecatalog/movie"
)

type Service interface {
	AddItem(ctx context.Context, userID string, movieID int64) (Item, error)
	ListItems(ctx context.Context, userID string) ([]Item, error)
	RemoveItem(ctx context.Context, id, userID string) error
}

// Repository is the watchlist store port. Every method that takes both an
// item id and a user id must filter on both, so one user can never touch
// another user's items; a miss is reported as ErrItemNotFound.
type Repository interface {
	Create(ctx context.Context, item Item) (Item, error)
	ListByUser(ctx context.Context, userID string) ([]Item, error)
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

func (uc *Usecase) AddItem(ctx context.Context, userID string, movieID int64) (Item, error) {
	item := Item{UserID: strings.TrimSpace(userID), MovieID: movieID}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}

	doc, err := uc.movies.GetMovie(ctx, movieID)
	if err != nil {
		return Item{}, err
	}
	card := movie.ToCard(doc)
	item.Title = card.Title
	item.PosterURL = card.PosterURL
	item.CreatedAt = uc.now()

	return uc.r.Create(ctx, item)
}

func (uc *Usecase) ListItems(ctx context.Context, userID string) ([]Item, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}
	return uc.r.ListByUser(ctx, userID)
}

func (uc *Usecase) RemoveItem(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return ErrItemIDRequired
	}
	if strings.TrimSpace(userID) == "" {
		return ErrUserIDRequired
	}
	return uc.r.Delete(ctx, id, userID)
}
