package mongodb_test

import (
	"context"
	"testing"

	"moviecatalog/mongodb"
	"moviecatalog/movie"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovieRepository(t *testing.T) {
	db := CreateDatabase(t, "movie_test")
	repo := mongodb.NewMovieRepository(db, testTimeout)
	ctx := context.Background()

	t.Run("find orders by popularity and applies filters", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.MoviesCollection)
		mustUpsertMovies(t, repo,
			movie.Document{"id": int64(1), "title": "Heat", "popularity": 50.0, "vote_average": 8.3, "poster_url": "https://image.tmdb.org/heat.jpg", "genres": []any{map[string]any{"id": 80, "name": "Crime"}}},
			movie.Document{"id": int64(2), "title": "The Heat", "popularity": 80.0, "vote_average": 6.6, "poster_url": "https://image.tmdb.org/the-heat.jpg", "genres": []any{map[string]any{"id": 35, "name": "Comedy"}}},
			movie.Document{"id": int64(3), "title": "Heathers", "popularity": 99.0, "vote_average": 7.0, "poster_url": ""},
			movie.Document{"id": int64(4), "title": "Alien", "popularity": 70.0, "vote_average": 8.5, "poster_url": "http://elsewhere/alien.jpg"},
		)

		// Act
		all, err := repo.Find(ctx, movie.ListQuery{Page: 1, Limit: 10})
		require.NoError(t, err)
		heat, err := repo.Find(ctx, movie.ListQuery{Text: "HEAT", Page: 1, Limit: 10})
		require.NoError(t, err)
		crime, err := repo.Find(ctx, movie.ListQuery{Genre: "crim", Page: 1, Limit: 10})
		require.NoError(t, err)
		rating := 8.0
		tmdb, err := repo.Find(ctx, movie.ListQuery{MinRating: &rating, Poster: movie.PosterPrefix, PosterPrefix: "https://image.tmdb.org/", Page: 1, Limit: 10})
		require.NoError(t, err)

		// Assert
		assert.Equal(t, []int64{2, 4, 1}, ids(all))
		assert.Equal(t, []int64{2, 1}, ids(heat))
		assert.Equal(t, []int64{1}, ids(crime))
		assert.Equal(t, []int64{1}, ids(tmdb))
		assert.NotContains(t, all[0], "_id")
	})

	t.Run("empty poster prefix still requires a poster", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.MoviesCollection)
		mustUpsertMovies(t, repo,
			movie.Document{"id": int64(1), "title": "Heat", "popularity": 50.0, "poster_url": "https://image.tmdb.org/heat.jpg"},
			movie.Document{"id": int64(3), "title": "Heathers", "popularity": 99.0, "poster_url": ""},
		)
		q := movie.ListQuery{Poster: movie.PosterPrefix, Page: 1, Limit: 10}

		// Act
		docs, err := repo.Find(ctx, q)
		require.NoError(t, err)
		total, err := repo.Count(ctx, q)
		require.NoError(t, err)

		// Assert
		assert.Equal(t, []int64{1}, ids(docs))
		assert.Equal(t, int64(1), total)
		for _, d := range docs {
			assert.True(t, q.Matches(d))
		}
	})

	t.Run("count and paging agree", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.MoviesCollection)
		for i := int64(1); i <= 5; i++ {
			mustUpsertMovies(t, repo, movie.Document{"id": i, "title": "M", "popularity": float64(i), "poster_url": "p"})
		}
		q := movie.ListQuery{Page: 2, Limit: 2}

		// Act
		total, err := repo.Count(ctx, q)
		require.NoError(t, err)
		page, err := repo.Find(ctx, q)
		require.NoError(t, err)

		// Assert
		assert.Equal(t, int64(5), total)
		assert.Equal(t, []int64{3, 2}, ids(page))
	})

	t.Run("create get replace delete", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.MoviesCollection)
		m := movie.Movie{ID: 42, Title: "Arrival", PosterURL: "p", Genres: []movie.Named{{ID: 878, Name: "Science Fiction"}}}

		// Act & Assert
		require.NoError(t, repo.Create(ctx, m.Document()))
		assert.ErrorIs(t, repo.Create(ctx, m.Document()), movie.ErrMovieExists)

		got, err := repo.GetByID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Arrival", got["title"])
		assert.Equal(t, "Science Fiction", movie.ToCard(got).GenresText)

		m.Title = "Arrival (2016)"
		require.NoError(t, repo.Replace(ctx, 42, m.Document()))
		got, err = repo.GetByID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Arrival (2016)", got["title"])

		assert.ErrorIs(t, repo.Replace(ctx, 43, m.Document()), movie.ErrMovieNotFound)

		require.NoError(t, repo.Delete(ctx, 42))
		assert.ErrorIs(t, repo.Delete(ctx, 42), movie.ErrMovieNotFound)
		_, err = repo.GetByID(ctx, 42)
		assert.ErrorIs(t, err, movie.ErrMovieNotFound)
	})

	t.Run("upsert replaces by external id", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.MoviesCollection)

		// Act
		mustUpsertMovies(t, repo,
			movie.Document{"id": int64(9), "title": "Old"},
			movie.Document{"id": int64(9), "title": "New"},
		)

		// Assert
		n, err := db.Collection(mongodb.MoviesCollection).CountDocuments(ctx, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		got, err := repo.GetByID(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, "New", got["title"])
	})
}

func mustUpsertMovies(t testing.TB, repo *mongodb.MovieRepository, docs ...movie.Document) {
	t.Helper()
	for _, d := range docs {
		require.NoError(t, repo.Upsert(context.Background(), d))
	}
}

func ids(docs []movie.Document) []int64 {
	out := make([]int64, len(docs))
	for i, d := range docs {
		out[i] = d.ID()
	}
	return out
}
