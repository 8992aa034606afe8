package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"moviecatalog/auth"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/pkg/logger"
	"moviecatalog/review"
	"moviecatalog/user"
	"moviecatalog/watchlist"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultAddr = ":8080"

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	Config *config.Config
	Logger *zap.SugaredLogger

	MovieService     movie.Service
	UserService      user.Service
	AuthService      auth.Service
	WatchlistService watchlist.Service
	ReviewService    review.Service
	Health           HealthChecker
}

// New builds a server with every route registered. Services are plain
// fields and may be assigned after construction.
func New(options ...Options) (*Server, error) {
	s := Server{
		Router:       echo.New(),
		Addr:         defaultAddr,
		AllowOrigins: []string{"*"},
		Config:       config.Empty,
		Logger:       logger.NOOPLogger,
	}

	for _, fn := range options {
		if err := fn(&s); err != nil {
			return nil, err
		}
	}

	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	s.Router.HideBanner = true
	s.Router.HTTPErrorHandler = s.httpErrorHandler
	s.Router.JSONSerializer = JSONSerializer{}
	s.Router.Validator = NewValidator()
	s.Router.Renderer = renderer

	s.RegisterGlobalMiddlewares()
	s.RegisterHealthRoutes()
	s.RegisterMetricsRoutes()
	s.RegisterSwaggerRoutes()
	s.RegisterAuthRoutes()
	s.RegisterPageRoutes()

	api := s.Router.Group("/api")
	s.RegisterMovieRoutes(api)
	s.RegisterWatchlistRoutes(api)
	s.RegisterReviewRoutes(api)

	return &s, nil
}

// Default builds a server from cfg and panics if the embedded templates
// fail to parse.
func Default(cfg *config.Config) *Server {
	s, err := New(WithConfig(cfg))
	if err != nil {
		panic(fmt.Sprintf("httpserver: %v", err))
	}
	return s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	s.Router.Use(metricsMiddleware())

	if s.Config.RateLimit > 0 {
		s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(s.Config.RateLimit))))
	}

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
