package movie

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxCardGenres     = 3
	maxCardCountries  = 2
	shortOverviewSize = 160
	missingRating     = "N/A"
)

// Card is the flattened listing view of a movie.
type Card struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	PosterURL     string `json:"posterUrl"`
	GenresText    string `json:"genresText"`
	CountryText   string `json:"countryText"`
	Year          string `json:"year"`
	Rating        string `json:"rating"`
	Runtime       string `json:"runtime"`
	ShortOverview string `json:"shortOverview"`
}

// Detail is the full view of a movie for its own page.
type Detail struct {
	Card
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"releaseDate"`
	VoteAverage   float64 `json:"voteAverage"`
	VoteCount     int64   `json:"voteCount"`
	Budget        int64   `json:"budget"`
	Revenue       int64   `json:"revenue"`
	Homepage      string  `json:"homepage"`
	CountriesText string  `json:"countriesText"`
	LanguagesText string  `json:"languagesText"`
	CompaniesText string  `json:"companiesText"`
}

func ToCard(d Document) Card {
	overview, _ := d["overview"].(string)
	poster, _ := d["poster_url"].(string)

	return Card{
		ID:            d.ID(),
		Title:         title(d),
		PosterURL:     poster,
		GenresText:    joinRelation(d["genres"], maxCardGenres, " · ", "name"),
		CountryText:   cardCountries(d),
		Year:          year(d["release_date"]),
		Rating:        rating(d["vote_average"]),
		Runtime:       runtime(d["runtime"]),
		ShortOverview: truncate(overview, shortOverviewSize),
	}
}

func ToCards(docs []Document) []Card {
	cards := make([]Card, len(docs))
	for i, d := range docs {
		cards[i] = ToCard(d)
	}
	return cards
}

func ToDetail(d Document) Detail {
	card := ToCard(d)
	overview, _ := d["overview"].(string)
	homepage, _ := d["homepage"].(string)
	voteAverage, _ := number(d["vote_average"])

	countries := joinRelation(d["production_countries"], 0, ", ", "name")
	if countries == "" {
		countries = card.CountryText
	}

	return Detail{
		Card:          card,
		Overview:      overview,
		ReleaseDate:   releaseDate(d["release_date"]),
		VoteAverage:   voteAverage,
		VoteCount:     integer(d["vote_count"]),
		Budget:        integer(d["budget"]),
		Revenue:       integer(d["revenue"]),
		Homepage:      homepage,
		CountriesText: countries,
		LanguagesText: joinRelation(d["spoken_languages"], 0, ", ", "english_name", "name"),
		CompaniesText: joinRelation(d["production_companies"], 0, ", ", "name"),
	}
}

func title(d Document) string {
	if t, ok := d["title"].(string); ok && strings.TrimSpace(t) != "" {
		return t
	}
	if t, ok := d["original_title"].(string); ok && strings.TrimSpace(t) != "" {
		return t
	}
	return ""
}

func cardCountries(d Document) string {
	if text := joinRelation(d["production_countries"], maxCardCountries, ", ", "name"); text != "" {
		return text
	}
	return joinRelation(d["origin_country"], maxCardCountries, ", ")
}

// joinRelation flattens a list of sub-documents (or plain strings) into
// text, reading the first non-empty of keys from each sub-document. A
// string value is kept as is; any other non-list value gives "".
// A limit of 0 keeps every entry.
func joinRelation(v any, limit int, sep string, keys ...string) string {
	switch list := v.(type) {
	case string:
		return list
	case []any:
		names := make([]string, 0, len(list))
		for _, item := range list {
			if limit > 0 && len(names) == limit {
				break
			}
			if name := relationName(item, keys); name != "" {
				names = append(names, name)
			}
		}
		return strings.Join(names, sep)
	case []string:
		return joinRelation(toAnySlice(list), limit, sep, keys...)
	default:
		return ""
	}
}

func relationName(item any, keys []string) string {
	switch v := item.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, k := range keys {
			if name, ok := v[k].(string); ok && strings.TrimSpace(name) != "" {
				return strings.TrimSpace(name)
			}
		}
	}
	return ""
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func year(v any) string {
	switch d := v.(type) {
	case string:
		if len(d) < 4 {
			return ""
		}
		for _, r := range d[:4] {
			if r < '0' || r > '9' {
				return ""
			}
		}
		return d[:4]
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return fmt.Sprintf("%04d", d.Year())
	default:
		return ""
	}
}

func releaseDate(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format("2006-01-02")
	default:
		return ""
	}
}

func rating(v any) string {
	f, ok := number(v)
	if !ok {
		return missingRating
	}
	return fmt.Sprintf("%.1f", f)
}

func runtime(v any) string {
	f, ok := number(v)
	if !ok || f <= 0 {
		return ""
	}
	return fmt.Sprintf("%d min", int64(f))
}

func integer(v any) int64 {
	f, _ := number(v)
	return int64(f)
}

func truncate(s string, size int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= size {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:size])) + "…"
}
