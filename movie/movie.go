package movie

import (
	"strings"

	"moviecatalog/errs"
)

var (
	ErrMovieNotFound  = errs.Errorf(errs.ENOTFOUND, "movie: not found")
	ErrMovieExists    = errs.Errorf(errs.ECONFLICT, "movie: external id already exists")
	ErrInvalidID      = errs.Errorf(errs.EINVALID, "movie: invalid id")
	ErrInvalidTitle   = errs.Errorf(errs.EINVALID, "movie: title is required")
	ErrInvalidRating  = errs.Errorf(errs.EINVALID, "movie: rating must be between 0 and 10")
	ErrInvalidRuntime = errs.Errorf(errs.EINVALID, "movie: runtime must not be negative")
)

// Document is a movie as stored. Imports leave the shape loose, so readers
// must not assume any field exists or carries the expected type.
type Document map[string]any

// ID returns the external movie id, or 0 when it is missing or not numeric.
func (d Document) ID() int64 {
	f, ok := number(d["id"])
	if !ok {
		return 0
	}
	return int64(f)
}

type Named struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Country struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

type Language struct {
	ISO         string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

// Movie is the typed write model used by admin CRUD.
type Movie struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	OriginalTitle       string     `json:"original_title"`
	Overview            string     `json:"overview"`
	Genres              []Named    `json:"genres"`
	ProductionCompanies []Named    `json:"production_companies"`
	ProductionCountries []Country  `json:"production_countries"`
	SpokenLanguages     []Language `json:"spoken_languages"`
	OriginCountry       []string   `json:"origin_country"`
	VoteAverage         float64    `json:"vote_average"`
	VoteCount           int64      `json:"vote_count"`
	Popularity          float64    `json:"popularity"`
	Runtime             int        `json:"runtime"`
	ReleaseDate         string     `json:"release_date"`
	PosterURL           string     `json:"poster_url"`
	Budget              int64      `json:"budget"`
	Revenue             int64      `json:"revenue"`
	Homepage            string     `json:"homepage"`
}

func (m Movie) Validate() error {
	if m.ID <= 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(m.Title) == "" && strings.TrimSpace(m.OriginalTitle) == "" {
		return ErrInvalidTitle
	}
	if m.VoteAverage < 0 || m.VoteAverage > 10 {
		return ErrInvalidRating
	}
	if m.Runtime < 0 {
		return ErrInvalidRuntime
	}
	return nil
}

// Document converts m to its stored shape. Nested lists become []any of
// map[string]any, the same shape the store adapters hand back on reads.
func (m Movie) Document() Document {
	genres := make([]any, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, map[string]any{"id": g.ID, "name": g.Name})
	}
	companies := make([]any, 0, len(m.ProductionCompanies))
	for _, c := range m.ProductionCompanies {
		companies = append(companies, map[string]any{"id": c.ID, "name": c.Name})
	}
	countries := make([]any, 0, len(m.ProductionCountries))
	for _, c := range m.ProductionCountries {
		countries = append(countries, map[string]any{"iso_3166_1": c.ISO, "name": c.Name})
	}
	languages := make([]any, 0, len(m.SpokenLanguages))
	for _, l := range m.SpokenLanguages {
		languages = append(languages, map[string]any{"iso_639_1": l.ISO, "english_name": l.EnglishName, "name": l.Name})
	}
	origin := make([]any, 0, len(m.OriginCountry))
	for _, c := range m.OriginCountry {
		origin = append(origin, c)
	}

	return Document{
		"id":                   m.ID,
		"title":                strings.TrimSpace(m.Title),
		"original_title":       strings.TrimSpace(m.OriginalTitle),
		"overview":             m.Overview,
		"genres":               genres,
		"production_companies": companies,
		"production_countries": countries,
		"spoken_languages":     languages,
		"origin_country":       origin,
		"vote_average":         m.VoteAverage,
		"vote_count":           m.VoteCount,
		"popularity":           m.Popularity,
		"runtime":              m.Runtime,
		"release_date":         m.ReleaseDate,
		"poster_url":           strings.TrimSpace(m.PosterURL),
		"budget":               m.Budget,
		"revenue":              m.Revenue,
		"homepage":             m.Homepage,
	}
}

// number reads the numeric types documents carry after a decode: float64
// from JSON, int32/int64 from BSON and plain ints from Movie.Document.
func number(v any) (float64, bool) {
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
