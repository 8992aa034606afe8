// Package postgres implements the store ports on top of PostgreSQL through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moviecatalog/errs"
	"moviecatalog/pkg/metrics"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const defaultQueryTimeout = 10 * time.Second

type Options struct {
	DBName       string
	DBUser       string
	Password     string
	Host         string
	Port         string
	SSLMode      bool
	QueryTimeout time.Duration
}

// NewConnection opens a gorm handle backed by the lib/pq driver, so driver
// errors surface as *pq.Error.
func NewConnection(opts Options) (*gorm.DB, error) {
	sslmode := "disable"
	if opts.SSLMode {
		sslmode = "require"
	}

	datasource := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		opts.Host, opts.Port, opts.DBUser, opts.Password, opts.DBName, sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        datasource,
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	return db, nil
}

// HealthChecker pings the database for the health endpoint.
type HealthChecker struct {
	db *gorm.DB
}

func NewHealthChecker(db *gorm.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) Ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// table bundles the handle, table name and per-query timeout every
// repository applies.
type table struct {
	db      *gorm.DB
	name    string
	timeout time.Duration
}

func newTable(db *gorm.DB, name string, timeout time.Duration) table {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return table{db: db, name: name, timeout: timeout}
}

func (t table) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	return t.db.WithContext(ctx), cancel
}

// observe records the query in metrics; application errors are not failures.
func (t table) observe(operation string, start time.Time, err *error) {
	var failed error
	if err != nil && *err != nil && errs.ErrorCode(*err) == errs.EINTERNAL {
		failed = *err
	}
	metrics.RecordDBQuery(operation, t.name, start, failed)
}

func isDuplicateKeyError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes the LIKE wildcards in s.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
