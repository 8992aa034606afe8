package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moviecatalog/review"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type reviewDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    string        `bson:"user_id"`
	MovieID   int64         `bson:"movie_id"`
	Rating    int           `bson:"rating"`
	Comment   string        `bson:"comment"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

func (d reviewDocument) toReview() review.Review {
	return review.Review{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		MovieID:   d.MovieID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// ReviewRepository implements [review.Repository].
type ReviewRepository struct {
	collection
}

func NewReviewRepository(db *mongo.Database, timeout time.Duration) *ReviewRepository {
	return &ReviewRepository{collection: newCollection(db, ReviewsCollection, timeout)}
}

func (r *ReviewRepository) Create(ctx context.Context, rv review.Review) (_ review.Review, err error) {
	defer r.observe("insert", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	doc := reviewDocument{
		ID:        bson.NewObjectID(),
		UserID:    rv.UserID,
		MovieID:   rv.MovieID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt.Truncate(time.Millisecond),
		UpdatedAt: rv.UpdatedAt.Truncate(time.Millisecond),
	}
	if _, err = r.coll.InsertOne(ctx, doc); err != nil {
		return review.Review{}, fmt.Errorf("mongodb: insert review: %w", err)
	}
	return doc.toReview(), nil
}

func (r *ReviewRepository) CountByMovie(ctx context.Context, movieID int64) (n int64, err error) {
	defer r.observe("count", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err = r.coll.CountDocuments(ctx, bson.M{"movie_id": movieID})
	if err != nil {
		return 0, fmt.Errorf("mongodb: count reviews: %w", err)
	}
	return n, nil
}

// ListByMovie returns one page of a movie's reviews, newest first.
func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID int64, offset, limit int) (_ []review.Review, err error) {
	defer r.observe("find", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"movie_id": movieID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: find reviews: %w", err)
	}

	var docs []reviewDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode reviews: %w", err)
	}

	out := make([]review.Review, len(docs))
	for i, d := range docs {
		out[i] = d.toReview()
	}
	return out, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (_ review.Review, err error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return review.Review{}, review.ErrReviewNotFound
	}

	defer r.observe("find_one", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc reviewDocument
	if err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return review.Review{}, review.ErrReviewNotFound
		}
		return review.Review{}, fmt.Errorf("mongodb: get review: %w", err)
	}
	return doc.toReview(), nil
}

// Update changes rating and comment of a review owned by rv.UserID and
// returns the stored result.
func (r *ReviewRepository) Update(ctx context.Context, rv review.Review) (_ review.Review, err error) {
	oid, err := bson.ObjectIDFromHex(rv.ID)
	if err != nil {
		return review.Review{}, review.ErrReviewNotFound
	}

	defer r.observe("update", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"rating":     rv.Rating,
		"comment":    rv.Comment,
		"updated_at": rv.UpdatedAt.Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc reviewDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "user_id": rv.UserID}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return review.Review{}, review.ErrReviewNotFound
		}
		return review.Review{}, fmt.Errorf("mongodb: update review: %w", err)
	}
	return doc.toReview(), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id, userID string) (err error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return review.ErrReviewNotFound
	}

	defer r.observe("delete", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("mongodb: delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}
