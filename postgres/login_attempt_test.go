package postgres_test

import (
	"context"
	"testing"
	"time"

	"moviecatalog/auth"
	"moviecatalog/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAttemptRepository(t *testing.T) {
	db := CreateConnection(t, "login_attempt_test", "testuser", "testpass")
	MigrateTestDatabase(t, db, "../migrations")
	repo := postgres.NewLoginAttemptRepository(db, testTimeout)
	ctx := context.Background()
	email := "ann@example.com"

	got, err := repo.Get(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, auth.LoginAttempt{}, got)

	require.NoError(t, repo.Save(ctx, email, auth.LoginAttempt{FailedCount: 3}))
	got, err = repo.Get(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, auth.LoginAttempt{FailedCount: 3}, got)

	jailed := time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, email, auth.LoginAttempt{JailedUntil: jailed}))
	got, err = repo.Get(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, auth.LoginAttempt{JailedUntil: jailed}, got)

	require.NoError(t, repo.Reset(ctx, email))
	got, err = repo.Get(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, auth.LoginAttempt{}, got)
}
