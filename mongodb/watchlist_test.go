package mongodb_test

import (
	"context"
	"testing"
	"time"

	"moviecatalog/mongodb"
	"moviecatalog/watchlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchlistRepository(t *testing.T) {
	db := CreateDatabase(t, "watchlist_test")
	repo := mongodb.NewWatchlistRepository(db, testTimeout)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("lists newest first per user", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.WatchlistCollection)
		first, err := repo.Create(ctx, watchlist.Item{UserID: "u1", MovieID: 1, Title: "A", CreatedAt: now})
		require.NoError(t, err)
		second, err := repo.Create(ctx, watchlist.Item{UserID: "u1", MovieID: 2, Title: "B", CreatedAt: now.Add(time.Minute)})
		require.NoError(t, err)
		_, err = repo.Create(ctx, watchlist.Item{UserID: "u2", MovieID: 1, Title: "A", CreatedAt: now})
		require.NoError(t, err)

		// Act
		items, err := repo.ListByUser(ctx, "u1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []watchlist.Item{second, first}, items)
	})

	t.Run("same movie twice is a conflict", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.WatchlistCollection)
		_, err := repo.Create(ctx, watchlist.Item{UserID: "u1", MovieID: 1, CreatedAt: now})
		require.NoError(t, err)

		// Act
		_, err = repo.Create(ctx, watchlist.Item{UserID: "u1", MovieID: 1, CreatedAt: now})

		// Assert
		assert.ErrorIs(t, err, watchlist.ErrAlreadyListed)
	})

	t.Run("delete is scoped to the owner", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.WatchlistCollection)
		item, err := repo.Create(ctx, watchlist.Item{UserID: "u1", MovieID: 1, CreatedAt: now})
		require.NoError(t, err)

		// Act & Assert
		assert.ErrorIs(t, repo.Delete(ctx, item.ID, "u2"), watchlist.ErrItemNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "bogus", "u1"), watchlist.ErrItemNotFound)
		assert.NoError(t, repo.Delete(ctx, item.ID, "u1"))
		assert.ErrorIs(t, repo.Delete(ctx, item.ID, "u1"), watchlist.ErrItemNotFound)
	})
}
