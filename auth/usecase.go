package auth

import (
	"context"
	"strings"
	"time"

	"moviecatalog/errs"
	"moviecatalog/user"
)

var (
	ErrInvalidCredentials = errs.Errorf(errs.EUNAUTHORIZED, "invalid credentials")
	ErrAccountLocked      = errs.Errorf(errs.ETOOMANYREQUESTS, "account temporarily locked")
	ErrMissingToken       = errs.Errorf(errs.EUNAUTHORIZED, "missing bearer token")
	ErrInvalidToken       = errs.Errorf(errs.EUNAUTHORIZED, "invalid or expired token")
	ErrForbidden          = errs.Errorf(errs.EFORBIDDEN, "insufficient role")
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (Session, error)
	Login(ctx context.Context, email, password string) (Session, error)
	Authenticate(ctx context.Context, token string) (Identity, error)
}

type UserService interface {
	AddUser(ctx context.Context, u user.User, password string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

type LoginAttempt struct {
	FailedCount int
	JailedUntil time.Time
}

type LoginAttemptRepository interface {
	Get(ctx context.Context, email string) (LoginAttempt, error)
	Save(ctx context.Context, email string, attempt LoginAttempt) error
	Reset(ctx context.Context, email string) error
}

type PasswordHasher interface {
	Compare(hashed, plain string) error
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

type TokenProvider interface {
	GenerateToken(u user.User) (Token, error)
	ParseToken(token string) (Identity, error)
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      user.User `json:"user"`
}

type Usecase struct {
	users          UserService
	attemptsRepo   LoginAttemptRepository
	passwordHasher PasswordHasher
	tokenProvider  TokenProvider
	maxRetries     int
	jailDuration   time.Duration
	now            func() time.Time
}

func NewUsecase(
	users UserService,
	attemptsRepo LoginAttemptRepository,
	passwordHasher PasswordHasher,
	tokenProvider TokenProvider,
) *Usecase {
	return &Usecase{
		users:          users,
		attemptsRepo:   attemptsRepo,
		passwordHasher: passwordHasher,
		tokenProvider:  tokenProvider,
		maxRetries:     5,
		jailDuration:   15 * time.Minute,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (uc *Usecase) Register(ctx context.Context, name, email, password string) (Session, error) {
	u, err := uc.users.AddUser(ctx, user.User{
		Name:  name,
		Email: email,
		Role:  user.RoleUser,
	}, password)
	if err != nil {
		return Session{}, err
	}
	return uc.issue(u)
}

// Login checks the credentials for email. Five consecutive failures lock
// the email out for fifteen minutes; a success clears the counter.
func (uc *Usecase) Login(ctx context.Context, email, password string) (Session, error) {
	email = user.NormalizeEmail(email)

	attempt, err := uc.attemptsRepo.Get(ctx, email)
	if err != nil {
		return Session{}, err
	}

	if !attempt.JailedUntil.IsZero() {
		if attempt.JailedUntil.After(uc.now()) {
			return Session{}, ErrAccountLocked
		}
		attempt.JailedUntil = time.Time{}
		attempt.FailedCount = 0
		if err := uc.attemptsRepo.Save(ctx, email, attempt); err != nil {
			return Session{}, err
		}
	}

	u, err := uc.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errs.ErrorCode(err) == errs.EINTERNAL {
			return Session{}, err
		}
		return Session{}, uc.recordFailure(ctx, email, attempt)
	}

	if err := uc.passwordHasher.Compare(u.PasswordHash, password); err != nil {
		return Session{}, uc.recordFailure(ctx, email, attempt)
	}

	if err := uc.attemptsRepo.Reset(ctx, email); err != nil {
		return Session{}, err
	}

	return uc.issue(u)
}

// Authenticate verifies a bearer token and returns the identity it carries.
func (uc *Usecase) Authenticate(_ context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	id, err := uc.tokenProvider.ParseToken(token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	if id.UserID == "" || !id.Role.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}

func (uc *Usecase) issue(u user.User) (Session, error) {
	token, err := uc.tokenProvider.GenerateToken(u)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      u,
	}, nil
}

// recordFailure stores one more failed attempt and returns the error the
// caller should see for it.
func (uc *Usecase) recordFailure(ctx context.Context, email string, attempt LoginAttempt) error {
	attempt.FailedCount++
	if attempt.FailedCount >= uc.maxRetries {
		attempt.FailedCount = 0
		attempt.JailedUntil = uc.now().Add(uc.jailDuration)
	}
	if err := uc.attemptsRepo.Save(ctx, email, attempt); err != nil {
		return err
	}
	return ErrInvalidCredentials
}
