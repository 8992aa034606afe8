package mongodb_test

import (
	"context"
	"testing"

	"moviecatalog/mongodb"
	"moviecatalog/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := CreateDatabase(t, "user_test")
	repo := mongodb.NewUserRepository(db, testTimeout)
	ctx := context.Background()

	t.Run("create then read back by id and email", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.UsersCollection)

		// Act
		created, err := repo.CreateUser(ctx, user.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "hash", Role: user.RoleUser})
		require.NoError(t, err)

		// Assert
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, byID)

		byEmail, err := repo.GetByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, created, byEmail)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		// Arrange
		cleanupCollection(t, db, mongodb.UsersCollection)
		_, err := repo.CreateUser(ctx, user.User{Name: "Ann", Email: "ann@example.com", Role: user.RoleUser})
		require.NoError(t, err)

		// Act
		_, err = repo.CreateUser(ctx, user.User{Name: "Other", Email: "ann@example.com", Role: user.RoleUser})

		// Assert
		assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
	})

	t.Run("unknown and malformed ids are not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "65f000000000000000000000")
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		_, err = repo.GetByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}
