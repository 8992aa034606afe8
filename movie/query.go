package movie

import (
	"math"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PosterRule selects which movies qualify for a listing by their poster URL.
type PosterRule int

const (
	// PosterPresent keeps movies with any non-empty poster URL.
	PosterPresent PosterRule = iota
	// PosterPrefix keeps movies whose poster URL starts with ListQuery.PosterPrefix.
	PosterPrefix
)

// ListQuery is the set of listing filters plus paging. All filters are
// combined with AND; results are ordered by popularity, highest first.
type ListQuery struct {
	Text         string
	Genre        string
	MinRating    *float64
	Page         int
	Limit        int
	Poster       PosterRule
	PosterPrefix string
}

// Normalize trims the text filters and fills paging defaults. Page has no
// upper bound here; callers that need one clamp against the total.
func (q ListQuery) Normalize() ListQuery {
	q.Text = strings.TrimSpace(q.Text)
	q.Genre = strings.TrimSpace(q.Genre)
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q ListQuery) Validate() error {
	if q.MinRating != nil && (*q.MinRating < 0 || *q.MinRating > 10) {
		return ErrInvalidRating
	}
	return nil
}

// Offset is the number of items before q.Page. It saturates at math.MaxInt
// instead of wrapping for page numbers no store could reach.
func (q ListQuery) Offset() int {
	return Offset(q.Page, q.Limit)
}

func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// PastEnd reports whether q starts after the last of total items.
func (q ListQuery) PastEnd(total int64) bool {
	return int64(q.Offset()) >= total
}

// Matches reports whether d satisfies every filter of q. Store adapters
// translate the same predicate into their own query language.
func (q ListQuery) Matches(d Document) bool {
	poster, _ := d["poster_url"].(string)
	switch q.Poster {
	case PosterPrefix:
		if poster == "" || !strings.HasPrefix(poster, q.PosterPrefix) {
			return false
		}
	default:
		if poster == "" {
			return false
		}
	}

	if q.Text != "" {
		title, _ := d["title"].(string)
		if !containsFold(title, q.Text) {
			return false
		}
	}

	if q.Genre != "" && !hasGenre(d["genres"], q.Genre) {
		return false
	}

	if q.MinRating != nil {
		rating, ok := number(d["vote_average"])
		if !ok || rating < *q.MinRating {
			return false
		}
	}

	return true
}

func hasGenre(v any, genre string) bool {
	list, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		g, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if name, ok := g["name"].(string); ok && containsFold(name, genre) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// TotalPages returns how many pages of limit items total spans.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
