package review

import (
	"strings"
	"time"
	"unicode/utf8"

	"moviecatalog/errs"
)

const (
	MinRating        = 1
	MaxRating        = 10
	MaxCommentLength = 2000

	DefaultPageSize = 10
	MaxPageSize     = 50
)

var (
	ErrReviewNotFound   = errs.Errorf(errs.ENOTFOUND, "review: not found")
	ErrInvalidRating    = errs.Errorf(errs.EINVALID, "review: rating must be between 1 and 10")
	ErrCommentTooLong   = errs.Errorf(errs.EINVALID, "review: comment must be at most 2000 characters")
	ErrMovieIDRequired  = errs.Errorf(errs.EINVALID, "review: movieId is required")
	ErrUserIDRequired   = errs.Errorf(errs.EINVALID, "review: user id is required")
	ErrReviewIDRequired = errs.Errorf(errs.EINVALID, "review: id is required")
)

type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	MovieID   int64     `json:"movieId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r Review) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrUserIDRequired
	}
	if r.MovieID <= 0 {
		return ErrMovieIDRequired
	}
	return validateContent(r.Rating, r.Comment)
}

func validateContent(rating int, comment string) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// Page is one page of a movie's reviews, newest first.
type Page struct {
	Items []Review
	Page  int
	Limit int
	Total int64
}

func normalizePaging(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
