package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"moviecatalog/movie"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MovieRepository implements [movie.Repository].
type MovieRepository struct {
	collection
}

func NewMovieRepository(db *mongo.Database, timeout time.Duration) *MovieRepository {
	return &MovieRepository{collection: newCollection(db, MoviesCollection, timeout)}
}

// movieFilter mirrors movie.ListQuery.Matches. User input is regex-quoted
// before it is embedded in a pattern.
func movieFilter(q movie.ListQuery) bson.M {
	filter := bson.M{}

	switch q.Poster {
	case movie.PosterPrefix:
		filter["poster_url"] = bson.M{"$regex": "^" + regexp.QuoteMeta(q.PosterPrefix), "$ne": ""}
	default:
		filter["poster_url"] = bson.M{"$type": "string", "$ne": ""}
	}
	if q.Text != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(q.Text), "$options": "i"}
	}
	if q.Genre != "" {
		filter["genres.name"] = bson.M{"$regex": regexp.QuoteMeta(q.Genre), "$options": "i"}
	}
	if q.MinRating != nil {
		filter["vote_average"] = bson.M{"$gte": *q.MinRating}
	}

	return filter
}

func (r *MovieRepository) Count(ctx context.Context, q movie.ListQuery) (n int64, err error) {
	defer r.observe("count", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err = r.coll.CountDocuments(ctx, movieFilter(q))
	if err != nil {
		return 0, fmt.Errorf("mongodb: count movies: %w", err)
	}
	return n, nil
}

func (r *MovieRepository) Find(ctx context.Context, q movie.ListQuery) (docs []movie.Document, err error) {
	defer r.observe("find", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "popularity", Value: -1}, {Key: "id", Value: 1}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit)).
		SetProjection(bson.M{"_id": 0})

	cursor, err := r.coll.Find(ctx, movieFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: find movies: %w", err)
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("mongodb: decode movies: %w", err)
	}

	docs = make([]movie.Document, len(raw))
	for i, m := range raw {
		docs[i] = toMovieDocument(m)
	}
	return docs, nil
}

func (r *MovieRepository) GetByID(ctx context.Context, id int64) (doc movie.Document, err error) {
	defer r.observe("find_one", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var raw bson.M
	err = r.coll.FindOne(ctx, bson.M{"id": id}, options.FindOne().SetProjection(bson.M{"_id": 0})).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, movie.ErrMovieNotFound
		}
		return nil, fmt.Errorf("mongodb: get movie %d: %w", id, err)
	}
	return toMovieDocument(raw), nil
}

func (r *MovieRepository) Create(ctx context.Context, d movie.Document) (err error) {
	defer r.observe("insert", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err = r.coll.InsertOne(ctx, bson.M(d)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return movie.ErrMovieExists
		}
		return fmt.Errorf("mongodb: insert movie: %w", err)
	}
	return nil
}

func (r *MovieRepository) Replace(ctx context.Context, id int64, d movie.Document) (err error) {
	defer r.observe("replace", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": id}, bson.M(d))
	if err != nil {
		return fmt.Errorf("mongodb: replace movie %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("delete", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("mongodb: delete movie %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

// Upsert inserts or replaces the movie with the document's external id.
func (r *MovieRepository) Upsert(ctx context.Context, d movie.Document) (err error) {
	defer r.observe("upsert", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	id := d.ID()
	if _, err = r.coll.ReplaceOne(ctx, bson.M{"id": id}, bson.M(d), options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("mongodb: upsert movie %d: %w", id, err)
	}
	return nil
}

func toMovieDocument(m bson.M) movie.Document {
	doc := movie.Document(normalizeMap(m))
	delete(doc, "_id")
	return doc
}
