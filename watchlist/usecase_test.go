package watchlist_test

import (
	"context"
	"testing"

	"moviecatalog/movie"
	"moviecatalog/watchlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockWatchlistRepository struct {
	mock.Mock
}

func (m *MockWatchlistRepository) Create(ctx context.Context, item watchlist.Item) (watchlist.Item, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(watchlist.Item), args.Error(1)
}

func (m *MockWatchlistRepository) ListByUser(ctx context.Context, userID string) ([]watchlist.Item, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]watchlist.Item), args.Error(1)
}

func (m *MockWatchlistRepository) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockMovieFinder struct {
	mock.Mock
}

func (m *MockMovieFinder) GetMovie(ctx context.Context, id int64) (movie.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(movie.Document), args.Error(1)
}

func TestAddItem(t *testing.T) {
	t.Run("should copy title and poster from the movie", func(t *testing.T) {
		r := new(MockWatchlistRepository)
		movies := new(MockMovieFinder)
		uc := watchlist.NewUsecase(r, movies)
		movies.On("GetMovie", mock.Anything, int64(603)).Return(movie.Document{
			"id":         int64(603),
			"title":      "The Matrix",
			"poster_url": "https://image.tmdb.org/t/p/w500/matrix.jpg",
		}, nil).Once()
		r.On("Create", mock.Anything, mock.MatchedBy(func(i watchlist.Item) bool {
			return i.UserID == "u-1" && i.MovieID == 603 && i.Title == "The Matrix" &&
				i.PosterURL == "https://image.tmdb.org/t/p/w500/matrix.jpg" && !i.CreatedAt.IsZero()
		})).Return(watchlist.Item{ID: "w-1", UserID: "u-1", MovieID: 603}, nil).Once()

		item, err := uc.AddItem(context.Background(), "u-1", 603)

		assert.NoError(t, err)
		assert.Equal(t, "w-1", item.ID)
		r.AssertExpectations(t)
		movies.AssertExpectations(t)
	})

	t.Run("should require a movie id", func(t *testing.T) {
		r := new(MockWatchlistRepository)
		movies := new(MockMovieFinder)
		uc := watchlist.NewUsecase(r, movies)

		_, err := uc.AddItem(context.Background(), "u-1", 0)

		assert.Equal(t, watchlist.ErrMovieIDRequired, err)
		movies.AssertNotCalled(t, "GetMovie")
	})

	t.Run("should report a missing movie", func(t *testing.T) {
		r := new(MockWatchlistRepository)
		movies := new(MockMovieFinder)
		uc := watchlist.NewUsecase(r, movies)
		movies.On("GetMovie", mock.Anything, int64(42)).Return(movie.Document(nil), movie.ErrMovieNotFound).Once()

		_, err := uc.AddItem(context.Background(), "u-1", 42)

		assert.Equal(t, movie.ErrMovieNotFound, err)
		r.AssertNotCalled(t, "Create")
	})

	t.Run("should report duplicates", func(t *testing.T) {
		r := new(MockWatchlistRepository)
		movies := new(MockMovieFinder)
		uc := watchlist.NewUsecase(r, movies)
		movies.On("GetMovie", mock.Anything, int64(603)).Return(movie.Document{"id": int64(603)}, nil).Once()
		r.On("Create", mock.Anything, mock.Anything).Return(watchlist.Item{}, watchlist.ErrAlreadyListed).Once()

		_, err := uc.AddItem(context.Background(), "u-1", 603)

		assert.Equal(t, watchlist.ErrAlreadyListed, err)
	})
}

func TestListItems(t *testing.T) {
	r := new(MockWatchlistRepository)
	uc := watchlist.NewUsecase(r, new(MockMovieFinder))
	items := []watchlist.Item{{ID: "w-1", UserID: "u-1", MovieID: 603}}
	r.On("ListByUser", mock.Anything, "u-1").Return(items, nil).Once()

	got, err := uc.ListItems(context.Background(), "u-1")

	assert.NoError(t, err)
	assert.Equal(t, items, got)

	_, err = uc.ListItems(context.Background(), "")
	assert.Equal(t, watchlist.ErrUserIDRequired, err)
}

func TestRemoveItem(t *testing.T) {
	t.Run("should delete scoped to the owner", func(t *testing.T) {
		r := new(MockWatchlistRepository)
		uc := watchlist.NewUsecase(r, new(MockMovieFinder))
		r.On("Delete", mock.Anything, "w-1", "u-1").Return(nil).Once()

		assert.NoError(t, uc.RemoveItem(context.Background(), "w-1", "u-1"))
		r.AssertExpectations(t)
	})

	t.Run("should report not found for items of other users", func(t *testing.T) {
		r := new(MockWatchlistRepository)
		uc := watchlist.NewUsecase(r, new(MockMovieFinder))
		r.On("Delete", mock.Anything, "w-1", "u-2").Return(watchlist.ErrItemNotFound).Once()

		assert.Equal(t, watchlist.ErrItemNotFound, uc.RemoveItem(context.Background(), "w-1", "u-2"))
	})

	t.Run("should require an item id", func(t *testing.T) {
		r := new(MockWatchlistRepository)
		uc := watchlist.NewUsecase(r, new(MockMovieFinder))

		assert.Equal(t, watchlist.ErrItemIDRequired, uc.RemoveItem(context.Background(), " ", "u-1"))
		r.AssertNotCalled(t, "Delete")
	})
}
