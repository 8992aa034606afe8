package postgres_test

import (
	"context"
	"testing"

	"moviecatalog/postgres"
	"moviecatalog/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := CreateConnection(t, "user_test", "testuser", "testpass")
	MigrateTestDatabase(t, db, "../migrations")
	repo := postgres.NewUserRepository(db, testTimeout)
	ctx := context.Background()

	t.Run("create then read back by id and email", func(t *testing.T) {
		// Arrange
		cleanupTable(t, db, "users")

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
		cleanupTable(t, db, "users")
		_, err := repo.CreateUser(ctx, user.User{Name: "Ann", Email: "ann@example.com", Role: user.RoleUser})
		require.NoError(t, err)

		// Act
		_, err = repo.CreateUser(ctx, user.User{Name: "Other", Email: "ann@example.com", Role: user.RoleUser})

		// Assert
		assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
	})

	t.Run("unknown and malformed ids are not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "0b5c6d3e-2f1a-4c8e-9a7b-1d2e3f4a5b6c")
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		_, err = repo.GetByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}
