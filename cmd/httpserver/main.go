package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"moviecatalog/auth"
	"moviecatalog/grpcserver"
	"moviecatalog/httpserver"
	"moviecatalog/mongodb"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	jwtprovider "moviecatalog/pkg/jwt"
	"moviecatalog/pkg/logger"
	"moviecatalog/pkg/password"
	"moviecatalog/pkg/sentry"
	"moviecatalog/postgres"
	"moviecatalog/review"
	"moviecatalog/user"
	"moviecatalog/watchlist"

	sentrygo "github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Errorw("server stopped with error", zap.Error(err))
		sentry.Fatal(err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}

	err := sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.close(closeCtx); err != nil {
			log.Errorw("close store", zap.Error(err))
		}
	}()
	log.Infow("store connected", zap.String("driver", cfg.DB.Driver))

	hasher := password.NewBcryptHasher()
	movies := movie.NewUsecase(s.movies)
	users := user.NewUsecase(s.users, hasher)

	server, err := httpserver.New(
		httpserver.WithConfig(cfg),
		httpserver.WithLogger(log),
		httpserver.WithHealthChecker(s.health),
	)
	if err != nil {
		return err
	}
	server.MovieService = movies
	server.UserService = users
	server.AuthService = auth.NewUsecase(users, s.attempts, hasher, jwtprovider.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
	server.WatchlistService = watchlist.NewUsecase(s.watchlist, movies)
	server.ReviewService = review.NewUsecase(s.reviews, movies)

	errCh := make(chan error, 2)
	go func() {
		log.Infow("server started", zap.String("addr", server.Addr))
		errCh <- server.Start()
	}()

	if cfg.GRPCPort > 0 {
		probes := grpcserver.New(fmt.Sprintf(":%d", cfg.GRPCPort), s.health, log)
		go func() {
			log.Infow("grpc health server started", zap.String("addr", probes.Addr))
			errCh <- probes.Start()
		}()
		defer probes.Stop()
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// store bundles the repositories of the selected driver.
type store struct {
	movies    movie.Repository
	users     user.Repository
	attempts  auth.LoginAttemptRepository
	watchlist watchlist.Repository
	reviews   review.Repository
	health    httpserver.HealthChecker
	close     func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	timeout := cfg.DB.QueryTimeout

	switch cfg.DB.Driver {
	case config.DriverMongoDB:
		client, err := mongodb.NewClient(ctx, mongodb.Options{
			URI:          cfg.DB.MongoURI,
			Database:     cfg.DB.MongoDatabase,
			QueryTimeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.DB.MongoDatabase)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &store{
			movies:    mongodb.NewMovieRepository(db, timeout),
			users:     mongodb.NewUserRepository(db, timeout),
			attempts:  mongodb.NewLoginAttemptRepository(db, timeout),
			watchlist: mongodb.NewWatchlistRepository(db, timeout),
			reviews:   mongodb.NewReviewRepository(db, timeout),
			health:    mongodb.NewHealthChecker(client),
			close:     client.Disconnect,
		}, nil

	case config.DriverPostgres:
		db, err := postgres.NewConnection(postgres.Options{
			DBName:       cfg.DB.Name,
			DBUser:       cfg.DB.User,
			Password:     cfg.DB.Pass,
			Host:         cfg.DB.Host,
			Port:         strconv.Itoa(cfg.DB.Port),
			SSLMode:      cfg.DB.EnableSSL,
			QueryTimeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &store{
			movies:    postgres.NewMovieRepository(db, timeout),
			users:     postgres.NewUserRepository(db, timeout),
			attempts:  postgres.NewLoginAttemptRepository(db, timeout),
			watchlist: postgres.NewWatchlistRepository(db, timeout),
			reviews:   postgres.NewReviewRepository(db, timeout),
			health:    postgres.NewHealthChecker(db),
			close: func(context.Context) error {
				return sqlDB.Close()
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DB.Driver)
	}
}
