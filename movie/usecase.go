package movie

import (
	"context"
)

type Service interface {
	List(ctx context.Context, q ListQuery) (Page, error)
	Browse(ctx context.Context, q ListQuery) (Page, error)
	GetMovie(ctx context.Context, id int64) (Document, error)
	AddMovie(ctx context.Context, m Movie) error
	UpdateMovie(ctx context.Context, id int64, m Movie) error
	DeleteMovie(ctx context.Context, id int64) error
	ImportMovie(ctx context.Context, d Document) error
}

// Repository is the movie store port. Movies are addressed by their
// external id everywhere; the store's own key never leaves the adapter.
type Repository interface {
	Count(ctx context.Context, q ListQuery) (int64, error)
	Find(ctx context.Context, q ListQuery) ([]Document, error)
	GetByID(ctx context.Context, id int64) (Document, error)
	Create(ctx context.Context, d Document) error
	Replace(ctx context.Context, id int64, d Document) error
	Delete(ctx context.Context, id int64) error
	Upsert(ctx context.Context, d Document) error
}

// Page is one slice of a listing together with the totals needed for paging.
type Page struct {
	Items      []Document
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

// List returns the requested page as is. A page past the end comes back
// empty with the real totals and the store is not asked for items.
func (uc *Usecase) List(ctx context.Context, q ListQuery) (Page, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return Page{}, err
	}

	total, err := uc.r.Count(ctx, q)
	if err != nil {
		return Page{}, err
	}

	items := []Document{}
	if !q.PastEnd(total) {
		items, err = uc.r.Find(ctx, q)
		if err != nil {
			return Page{}, err
		}
	}

	return Page{
		Items:      items,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: TotalPages(total, q.Limit),
	}, nil
}

// Browse clamps the requested page into [1, TotalPages] before fetching.
func (uc *Usecase) Browse(ctx context.Context, q ListQuery) (Page, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return Page{}, err
	}

	total, err := uc.r.Count(ctx, q)
	if err != nil {
		return Page{}, err
	}

	totalPages := TotalPages(total, q.Limit)
	if q.Page > totalPages {
		q.Page = totalPages
	}
	if q.Page < 1 {
		q.Page = 1
	}

	items := []Document{}
	if total > 0 {
		items, err = uc.r.Find(ctx, q)
		if err != nil {
			return Page{}, err
		}
	}

	return Page{
		Items:      items,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (uc *Usecase) GetMovie(ctx context.Context, id int64) (Document, error) {
	if id <= 0 {
		return nil, ErrMovieNotFound
	}
	return uc.r.GetByID(ctx, id)
}

func (uc *Usecase) AddMovie(ctx context.Context, m Movie) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return uc.r.Create(ctx, m.Document())
}

// UpdateMovie replaces the stored movie identified by id. The id in the
// path wins over any id in the body.
func (uc *Usecase) UpdateMovie(ctx context.Context, id int64, m Movie) error {
	if id <= 0 {
		return ErrMovieNotFound
	}
	m.ID = id
	if err := m.Validate(); err != nil {
		return err
	}
	return uc.r.Replace(ctx, id, m.Document())
}

func (uc *Usecase) DeleteMovie(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrMovieNotFound
	}
	return uc.r.Delete(ctx, id)
}

// ImportMovie upserts a raw document keyed by its external id. Only the id
// is checked; the rest of the document is stored as it came.
func (uc *Usecase) ImportMovie(ctx context.Context, d Document) error {
	if d.ID() <= 0 {
		return ErrInvalidID
	}
	d["id"] = d.ID()
	return uc.r.Upsert(ctx, d)
}
