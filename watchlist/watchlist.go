package watchlist

import (
	"strings"
	"time"

	"moviecatalog/errs"
)

var (
	ErrItemNotFound    = errs.Errorf(errs.ENOTFOUND, "watchlist: item not found")
	ErrAlreadyListed   = errs.Errorf(errs.ECONFLICT, "watchlist: movie already in watchlist")
	ErrMovieIDRequired = errs.Errorf(errs.EINVALID, "watchlist: movieId is required")
	ErrUserIDRequired  = errs.Errorf(errs.EINVALID, "watchlist: user id is required")
	ErrItemIDRequired  = errs.Errorf(errs.EINVALID, "watchlist: item id is required")
)

// Item is one movie on a user's watchlist. Title and poster are copied
// from the movie when the item is created.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	MovieID   int64     `json:"movieId"`
	Title     string    `json:"title"`
	PosterURL string    `json:"posterUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.UserID) == "" {
		return ErrUserIDRequired
	}
	if i.MovieID <= 0 {
		return ErrMovieIDRequired
	}
	return nil
}
