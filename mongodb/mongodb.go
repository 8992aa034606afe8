// Package mongodb implements the store ports on top of MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"moviecatalog/errs"
	"moviecatalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	MoviesCollection        = "movies"
	UsersCollection         = "users"
	WatchlistCollection     = "watchlist"
	ReviewsCollection       = "reviews"
	LoginAttemptsCollection = "login_attempts"

	defaultQueryTimeout = 10 * time.Second
)

type Options struct {
	URI          string
	Database     string
	QueryTimeout time.Duration
}

// NewClient connects to MongoDB and verifies the connection with a ping.
// The caller owns the client and must Disconnect it on shutdown.
func NewClient(ctx context.Context, opts Options) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, queryTimeout(opts.QueryTimeout))
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on for
// uniqueness and ordering. It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		MoviesCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "popularity", Value: -1}}},
		},
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		WatchlistCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "movie_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		ReviewsCollection: {
			{Keys: bson.D{{Key: "movie_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongodb: create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// HealthChecker pings the server for the health endpoint.
type HealthChecker struct {
	client *mongo.Client
}

func NewHealthChecker(client *mongo.Client) *HealthChecker {
	return &HealthChecker{client: client}
}

func (h *HealthChecker) Ping(ctx context.Context) error {
	return h.client.Ping(ctx, nil)
}

// collection bundles a collection handle with the per-query timeout every
// repository applies.
type collection struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func newCollection(db *mongo.Database, name string, timeout time.Duration) collection {
	return collection{coll: db.Collection(name), timeout: queryTimeout(timeout)}
}

func (c collection) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// observe records the query in metrics. Application errors such as
// not-found are expected outcomes and are not counted as failures.
func (c collection) observe(operation string, start time.Time, err *error) {
	var failed error
	if err != nil && *err != nil && errs.ErrorCode(*err) == errs.EINTERNAL {
		failed = *err
	}
	metrics.RecordDBQuery(operation, c.coll.Name(), start, failed)
}

func queryTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultQueryTimeout
	}
	return d
}
