package httpserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviecatalog/httpserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthcheck(t *testing.T) {
	server := httpserver.Default(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rec := httptest.NewRecorder()

	server.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"200"`)
	assert.Contains(t, rec.Body.String(), `"message":"OK"`)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
}

func TestHealthcheck_PingsStore(t *testing.T) {
	var pinged bool
	server, err := httpserver.New(
		httpserver.WithConfig(testConfig()),
		httpserver.WithHealthChecker(pingFunc(func(ctx context.Context) error {
			pinged = true
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil
		})),
	)
	require.NoError(t, err)

	rec := makeRequest(server, http.MethodGet, "/healthcheck", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, pinged)
}

func TestHealthcheck_StoreDown(t *testing.T) {
	server, err := httpserver.New(
		httpserver.WithConfig(testConfig()),
		httpserver.WithHealthChecker(pingFunc(func(context.Context) error {
			return errors.New("server selection timeout")
		})),
	)
	require.NoError(t, err)

	rec := makeRequest(server, http.MethodGet, "/healthcheck", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeAPIResponse(t, rec)
	assert.Equal(t, "100503", resp.Code)
	assert.NotContains(t, rec.Body.String(), "server selection timeout")
}
