package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"moviecatalog/errs"
	"moviecatalog/mongodb"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/pkg/logger"
	"moviecatalog/postgres"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const downloadTimeout = 60 * time.Second

type importer interface {
	ImportMovie(ctx context.Context, d movie.Document) error
}

func main() {
	var (
		file  string
		url   string
		limit int
	)

	flag.StringVar(&file, "file", "", "Path to a JSON array of movie documents")
	flag.StringVar(&url, "url", "", "URL of a JSON array of movie documents (used when -file is empty)")
	flag.IntVar(&limit, "limit", 0, "Limit number of movies to import (0 = all)")
	flag.Parse()

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, file, url, limit); err != nil {
		log.Errorw("import failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger, file, url string, limit int) error {
	src, err := openSource(ctx, file, url)
	if err != nil {
		return err
	}
	defer src.Close()

	repo, closeStore, err := openMovieRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	docs, err := decodeMovies(src)
	if err != nil {
		return err
	}

	imported, skipped, err := importMovies(ctx, log, movie.NewUsecase(repo), docs, limit)
	if err != nil {
		return err
	}

	log.Infow("import completed", zap.Int("imported", imported), zap.Int("skipped", skipped))
	return nil
}

func openSource(ctx context.Context, file, url string) (io.ReadCloser, error) {
	if file != "" {
		return os.Open(file)
	}
	if url == "" {
		return nil, errors.New("either -file or -url is required")
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

func decodeMovies(r io.Reader) ([]movie.Document, error) {
	var docs []movie.Document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	return docs, nil
}

// importMovies upserts docs in order. Documents the catalog rejects are
// logged and skipped; any other error stops the import.
func importMovies(ctx context.Context, log *zap.SugaredLogger, svc importer, docs []movie.Document, limit int) (imported, skipped int, err error) {
	for i, d := range docs {
		if limit > 0 && imported == limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return imported, skipped, err
		}
		if d == nil {
			skipped++
			continue
		}

		if err := svc.ImportMovie(ctx, d); err != nil {
			if errs.ErrorCode(err) == errs.EINVALID {
				log.Warnw("skip movie", zap.Int("index", i), zap.String("reason", errs.ErrorMessage(err)))
				skipped++
				continue
			}
			return imported, skipped, fmt.Errorf("import movie %d: %w", d.ID(), err)
		}
		imported++
	}
	return imported, skipped, nil
}

func openMovieRepository(ctx context.Context, cfg *config.Config) (movie.Repository, func(), error) {
	switch cfg.DB.Driver {
	case config.DriverMongoDB:
		client, err := mongodb.NewClient(ctx, mongodb.Options{
			URI:          cfg.DB.MongoURI,
			Database:     cfg.DB.MongoDatabase,
			QueryTimeout: cfg.DB.QueryTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.DB.MongoDatabase)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return mongodb.NewMovieRepository(db, cfg.DB.QueryTimeout), func() {
			_ = client.Disconnect(context.Background())
		}, nil

	case config.DriverPostgres:
		db, err := postgres.NewConnection(postgres.Options{
			DBName:       cfg.DB.Name,
			DBUser:       cfg.DB.User,
			Password:     cfg.DB.Pass,
			Host:         cfg.DB.Host,
			Port:         strconv.Itoa(cfg.DB.Port),
			SSLMode:      cfg.DB.EnableSSL,
			QueryTimeout: cfg.DB.QueryTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewMovieRepository(db, cfg.DB.QueryTimeout), func() {
			_ = sqlDB.Close()
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DB.Driver)
	}
}
