package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moviecatalog/auth"

	"gorm.io/gorm"
)

type LoginAttemptModel struct {
	Email       string `gorm:"primaryKey"`
	FailedCount int    `gorm:"not null"`
	JailedUntil *time.Time
}

func (LoginAttemptModel) TableName() string {
	return "login_attempts"
}

// LoginAttemptRepository implements [auth.LoginAttemptRepository].
type LoginAttemptRepository struct {
	table
}

func NewLoginAttemptRepository(db *gorm.DB, timeout time.Duration) *LoginAttemptRepository {
	return &LoginAttemptRepository{table: newTable(db, LoginAttemptModel{}.TableName(), timeout)}
}

// Get returns the zero attempt when the email has no record.
func (r *LoginAttemptRepository) Get(ctx context.Context, email string) (_ auth.LoginAttempt, err error) {
	defer r.observe("find_one", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	var model LoginAttemptModel
	if err = db.Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.LoginAttempt{}, nil
		}
		return auth.LoginAttempt{}, fmt.Errorf("postgres: get login attempt: %w", err)
	}

	attempt := auth.LoginAttempt{FailedCount: model.FailedCount}
	if model.JailedUntil != nil {
		attempt.JailedUntil = model.JailedUntil.UTC()
	}
	return attempt, nil
}

func (r *LoginAttemptRepository) Save(ctx context.Context, email string, attempt auth.LoginAttempt) (err error) {
	defer r.observe("upsert", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	model := LoginAttemptModel{Email: email, FailedCount: attempt.FailedCount}
	if !attempt.JailedUntil.IsZero() {
		jailed := attempt.JailedUntil.UTC()
		model.JailedUntil = &jailed
	}
	if err = db.Save(&model).Error; err != nil {
		return fmt.Errorf("postgres: save login attempt: %w", err)
	}
	return nil
}

func (r *LoginAttemptRepository) Reset(ctx context.Context, email string) (err error) {
	defer r.observe("delete", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	if err = db.Where("email = ?", email).Delete(&LoginAttemptModel{}).Error; err != nil {
		return fmt.Errorf("postgres: reset login attempt: %w", err)
	}
	return nil
}
