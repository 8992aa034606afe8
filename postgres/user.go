package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moviecatalog/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"not null;unique"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:user"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// UserRepository implements [user.Repository].
type UserRepository struct {
	table
	now func() time.Time
}

func NewUserRepository(db *gorm.DB, timeout time.Duration) *UserRepository {
	return &UserRepository{
		table: newTable(db, UserModel{}.TableName(), timeout),
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) (_ user.User, err error) {
	defer r.observe("insert", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	now := r.now()
	model := UserModel{
		ID:           uuid.NewString(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = db.Create(&model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailAlreadyExists
		}
		return user.User{}, fmt.Errorf("postgres: insert user: %w", err)
	}
	return toDomainUser(model), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrUserNotFound
	}
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (_ user.User, err error) {
	defer r.observe("find_one", time.Now(), &err)
	db, cancel := r.session(ctx)
	defer cancel()

	var model UserModel
	if err = db.Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("postgres: find user: %w", err)
	}
	return toDomainUser(model), nil
}

func toDomainUser(model UserModel) user.User {
	return user.User{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Role:         user.Role(model.Role),
		CreatedAt:    model.CreatedAt.UTC(),
		UpdatedAt:    model.UpdatedAt.UTC(),
	}
}
