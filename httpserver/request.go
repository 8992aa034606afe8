package httpserver

import (
	"strconv"
	"strings"

	"moviecatalog/errs"
	"moviecatalog/movie"

	"github.com/labstack/echo/v4"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,notblank,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,notblank,max=72"`
}

type AddWatchlistItemRequest struct {
	MovieID int64 `json:"movieId" validate:"required,gt=0"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=10"`
	Comment string `json:"comment" validate:"max=2000"`
}

type MovieRequest struct {
	ID                  int64            `json:"id" validate:"omitempty,gt=0"`
	Title               string           `json:"title" validate:"required,notblank,max=500"`
	OriginalTitle       string           `json:"original_title" validate:"max=500"`
	Overview            string           `json:"overview"`
	Genres              []movie.Named    `json:"genres"`
	ProductionCompanies []movie.Named    `json:"production_companies"`
	ProductionCountries []movie.Country  `json:"production_countries"`
	SpokenLanguages     []movie.Language `json:"spoken_languages"`
	OriginCountry       []string         `json:"origin_country"`
	VoteAverage         float64          `json:"vote_average" validate:"gte=0,lte=10"`
	VoteCount           int64            `json:"vote_count" validate:"gte=0"`
	Popularity          float64          `json:"popularity" validate:"gte=0"`
	Runtime             int              `json:"runtime" validate:"gte=0"`
	ReleaseDate         string           `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	PosterURL           string           `json:"poster_url" validate:"omitempty,url"`
	Budget              int64            `json:"budget" validate:"gte=0"`
	Revenue             int64            `json:"revenue" validate:"gte=0"`
	Homepage            string           `json:"homepage" validate:"omitempty,url"`
}

func (r MovieRequest) ToMovie() movie.Movie {
	return movie.Movie{
		ID:                  r.ID,
		Title:               r.Title,
		OriginalTitle:       r.OriginalTitle,
		Overview:            r.Overview,
		Genres:              r.Genres,
		ProductionCompanies: r.ProductionCompanies,
		ProductionCountries: r.ProductionCountries,
		SpokenLanguages:     r.SpokenLanguages,
		OriginCountry:       r.OriginCountry,
		VoteAverage:         r.VoteAverage,
		VoteCount:           r.VoteCount,
		Popularity:          r.Popularity,
		Runtime:             r.Runtime,
		ReleaseDate:         r.ReleaseDate,
		PosterURL:           r.PosterURL,
		Budget:              r.Budget,
		Revenue:             r.Revenue,
		Homepage:            r.Homepage,
	}
}

// bindAndValidate decodes the body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

// listQuery reads the listing filters shared by the page and the API.
func listQuery(c echo.Context) (movie.ListQuery, error) {
	q := movie.ListQuery{
		Text:  c.QueryParam("q"),
		Genre: c.QueryParam("genre"),
	}

	if raw := strings.TrimSpace(c.QueryParam("minRating")); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return movie.ListQuery{}, movie.ErrInvalidRating
		}
		q.MinRating = &rating
	}

	var err error
	if q.Page, err = intParam(c, "page"); err != nil {
		return movie.ListQuery{}, err
	}
	if q.Limit, err = intParam(c, "limit"); err != nil {
		return movie.ListQuery{}, err
	}
	return q, nil
}

// intParam returns 0 for an absent query parameter.
func intParam(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Errorf(errs.EINVALID, "%s must be an integer", name)
	}
	return n, nil
}

func movieIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, movie.ErrInvalidID
	}
	return id, nil
}
