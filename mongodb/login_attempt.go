package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moviecatalog/auth"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type loginAttemptDocument struct {
	Email       string     `bson:"_id"`
	FailedCount int        `bson:"failed_count"`
	JailedUntil *time.Time `bson:"jailed_until,omitempty"`
}

// LoginAttemptRepository implements [auth.LoginAttemptRepository], keyed
// by the normalized email.
type LoginAttemptRepository struct {
	collection
}

func NewLoginAttemptRepository(db *mongo.Database, timeout time.Duration) *LoginAttemptRepository {
	return &LoginAttemptRepository{collection: newCollection(db, LoginAttemptsCollection, timeout)}
}

// Get returns the zero attempt when the email has no record.
func (r *LoginAttemptRepository) Get(ctx context.Context, email string) (_ auth.LoginAttempt, err error) {
	defer r.observe("find_one", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc loginAttemptDocument
	if err = r.coll.FindOne(ctx, bson.M{"_id": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return auth.LoginAttempt{}, nil
		}
		return auth.LoginAttempt{}, fmt.Errorf("mongodb: get login attempt: %w", err)
	}

	attempt := auth.LoginAttempt{FailedCount: doc.FailedCount}
	if doc.JailedUntil != nil {
		attempt.JailedUntil = doc.JailedUntil.UTC()
	}
	return attempt, nil
}

func (r *LoginAttemptRepository) Save(ctx context.Context, email string, attempt auth.LoginAttempt) (err error) {
	defer r.observe("upsert", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	doc := loginAttemptDocument{
		Email:       email,
		FailedCount: attempt.FailedCount,
	}
	if !attempt.JailedUntil.IsZero() {
		jailed := attempt.JailedUntil.Truncate(time.Millisecond)
		doc.JailedUntil = &jailed
	}
	if _, err = r.coll.ReplaceOne(ctx, bson.M{"_id": email}, doc, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("mongodb: save login attempt: %w", err)
	}
	return nil
}

func (r *LoginAttemptRepository) Reset(ctx context.Context, email string) (err error) {
	defer r.observe("delete", time.Now(), &err)
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err = r.coll.DeleteOne(ctx, bson.M{"_id": email}); err != nil {
		return fmt.Errorf("mongodb: reset login attempt: %w", err)
	}
	return nil
}
