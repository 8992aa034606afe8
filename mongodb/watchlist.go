package mongodb

import (
	"context"
	"fmt"
	"time"

	"moviecatalog/watchlist"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type watchlistDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    string        `bson:"user_id"`
	MovieID   int64         `bson:"movie_id"`
	Title     string        `bson:"title"`
	PosterURL string        `bson:"poster_url"`
	CreatedAt time.Time     `bson:"created_at"`
}

func (d watchlistDocument) toItem() watchlist.Item {
	return watchlist.Item{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		MovieID:   d.MovieID,
		Title:     d.Title,
		PosterURL: d.PosterURL,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// WatchlistRepository implements [watchlist.Repository]. The unique
// (user_id, movie_id) index rejects a second entry for the same movie.
type WatchlistRepository struct {
	collection
}

func NewWatchlistRepository(db *mongo.Database, timeout time.Duration) *WatchlistRepository {
	return &WatchlistRepository{collection: newCollection(db, WatchlistCollection, timeout)}
}

func (r *WatchlistRepository) Create(ctx context.Context, item watchlist.Item) (_ watchlist.Item, err error) {
	defer r.observe("insert", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	doc := watchlistDocument{
		ID:        bson.NewObjectID(),
		UserID:    item.UserID,
		MovieID:   item.MovieID,
		Title:     item.Title,
		PosterURL: item.PosterURL,
		CreatedAt: item.CreatedAt.Truncate(time.Millisecond),
	}
	if _, err = r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return watchlist.Item{}, watchlist.ErrAlreadyListed
		}
		return watchlist.Item{}, fmt.Errorf("mongodb: insert watchlist item: %w", err)
	}
	return doc.toItem(), nil
}

// ListByUser returns the user's items, newest first.
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID string) (_ []watchlist.Item, err error) {
	defer r.observe("find", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: find watchlist: %w", err)
	}

	var docs []watchlistDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode watchlist: %w", err)
	}

	items := make([]watchlist.Item, len(docs))
	for i, d := range docs {
		items[i] = d.toItem()
	}
	return items, nil
}

// Delete removes the item only when it belongs to userID. Items of other
// users are reported as not found.
func (r *WatchlistRepository) Delete(ctx context.Context, id, userID string) (err error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return watchlist.ErrItemNotFound
	}

	defer r.observe("delete", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("mongodb: delete watchlist item: %w", err)
	}
	if res.DeletedCount == 0 {
		return watchlist.ErrItemNotFound
	}
	return nil
}
