package sentry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sentrygo "github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newEchoContext() echo.Context {
	e := echo.New()
	rec := httptest.NewRecorder()
	rec.Header().Set(echo.HeaderXRequestID, "req-42")
	return e.NewContext(httptest.NewRequest(http.MethodGet, "/api/movies", nil), rec)
}

func TestSentry_Builder(t *testing.T) {
	c := newEchoContext()
	err := errors.New("store unavailable")
	extras := map[string]interface{}{"movie_id": 603}
	tags := map[string]string{"route": "/api/movies/:id"}

	s := new(Sentry)
	result := s.WithContext(c).
		WithError(err).
		WithLevel(sentrygo.LevelWarning).
		WithExtras(extras).
		WithTags(tags)

	assert.Same(t, s, result, "builder methods should return the same instance")
	assert.Equal(t, c, s.context)
	assert.Equal(t, err, s.error)
	assert.Equal(t, sentrygo.LevelWarning, s.level)
	assert.Equal(t, extras, s.extras)
	assert.Equal(t, tags, s.tags)
}

func TestSentry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		appEnv   string
		dsn      string
		expected bool
	}{
		{name: "local environment", appEnv: "local", dsn: "https://public@sentry.example.com/1", expected: false},
		{name: "missing dsn", appEnv: "production", dsn: "", expected: false},
		{name: "configured", appEnv: "production", dsn: "https://public@sentry.example.com/1", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.appEnv)
			t.Setenv("SENTRY_DSN", tt.dsn)

			assert.Equal(t, tt.expected, enabled())
		})
	}
}

func TestSentry_SendsWhenConfigured(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SENTRY_DSN", "https://public@sentry.example.com/1")
	assert.NoError(t, sentrygo.Init(sentrygo.ClientOptions{Dsn: "https://public@sentry.example.com/1"}))
	defer sentrygo.Flush(0)

	assert.NotPanics(t, func() {
		WithContext(newEchoContext()).WithTags(map[string]string{"route": "/api/movies"}).Error(errors.New("boom"))
		WithContext(newEchoContext()).WithExtras(map[string]interface{}{"status": 500}).Error(errors.New("store down"))
	})
}

func TestSentry_DisabledLocally(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	original := FlushTime
	FlushTime = 0
	defer func() { FlushTime = original }()

	assert.NotPanics(t, func() {
		WithContext(newEchoContext()).Error(errors.New("error"))
		Fatal(errors.New("fatal"))
	})
}

func TestSentry_SkipsNilError(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SENTRY_DSN", "https://public@sentry.example.com/1")

	assert.NotPanics(t, func() {
		new(Sentry).WithLevel(sentrygo.LevelError).sendError()
	})
}

func TestSentry_GetHub(t *testing.T) {
	t.Run("falls back to the current hub", func(t *testing.T) {
		assert.Equal(t, sentrygo.CurrentHub(), new(Sentry).getHub())
	})

	t.Run("uses the hub stored on the echo context", func(t *testing.T) {
		c := newEchoContext()
		hub := sentrygo.CurrentHub().Clone()
		c.Set("sentry", hub)

		assert.Same(t, hub, WithContext(c).getHub())
	})
}

func TestSentry_ConfigScope(t *testing.T) {
	s := WithContext(newEchoContext()).
		WithLevel(sentrygo.LevelError).
		WithExtras(map[string]interface{}{"key": "value"}).
		WithTags(map[string]string{"env": "test"})

	scope := sentrygo.NewScope()

	assert.NotPanics(t, func() { s.configScope(scope) })
}

func TestSentry_ConfigScopeWithoutResponse(t *testing.T) {
	c := echo.New().NewContext(nil, nil)
	scope := sentrygo.NewScope()

	assert.NotPanics(t, func() { WithContext(c).configScope(scope) })
}
