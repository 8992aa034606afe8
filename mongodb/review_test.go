package mongodb_test

import (
	"context"
	"testing"
	"time"

	"moviecatalog/mongodb"
	"moviecatalog/review"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository(t *testing.T) {
	db := CreateDatabase(t, "review_test")
	repo := mongodb.NewReviewRepository(db, testTimeout)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("pages a movie's reviews newest first", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.ReviewsCollection)
		for i := 0; i < 3; i++ {
			at := now.Add(time.Duration(i) * time.Minute)
			_, err := repo.Create(ctx, review.Review{UserID: "u1", MovieID: 7, Rating: i + 1, CreatedAt: at, UpdatedAt: at})
			require.NoError(t, err)
		}
		_, err := repo.Create(ctx, review.Review{UserID: "u1", MovieID: 8, Rating: 5, CreatedAt: now, UpdatedAt: now})
		require.NoError(t, err)

		// Act
		total, err := repo.CountByMovie(ctx, 7)
		require.NoError(t, err)
		page, err := repo.ListByMovie(ctx, 7, 1, 2)
		require.NoError(t, err)

		// Assert
		assert.Equal(t, int64(3), total)
		require.Len(t, page, 2)
		assert.Equal(t, 2, page[0].Rating)
		assert.Equal(t, 1, page[1].Rating)
	})

	t.Run("update and delete only by the author", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.ReviewsCollection)
		created, err := repo.Create(ctx, review.Review{UserID: "u1", MovieID: 7, Rating: 4, Comment: "ok", CreatedAt: now, UpdatedAt: now})
		require.NoError(t, err)

		// Act
		_, errOther := repo.Update(ctx, review.Review{ID: created.ID, UserID: "u2", Rating: 1, UpdatedAt: now})
		updated, err := repo.Update(ctx, review.Review{ID: created.ID, UserID: "u1", Rating: 9, Comment: "great", UpdatedAt: now.Add(time.Hour)})
		require.NoError(t, err)

		// Assert
		assert.ErrorIs(t, errOther, review.ErrReviewNotFound)
		assert.Equal(t, 9, updated.Rating)
		assert.Equal(t, "great", updated.Comment)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.Equal(t, now.Add(time.Hour), updated.UpdatedAt)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		assert.ErrorIs(t, repo.Delete(ctx, created.ID, "u2"), review.ErrReviewNotFound)
		assert.NoError(t, repo.Delete(ctx, created.ID, "u1"))
		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, review.ErrReviewNotFound)
	})
}
