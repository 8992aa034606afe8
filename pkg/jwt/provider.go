package jwt

import (
	"errors"
	"fmt"
	"time"

	"moviecatalog/auth"
	"moviecatalog/user"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "moviecatalog"

// Claims is the payload of an access token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTProvider signs and verifies HS256 access tokens.
type JWTProvider struct {
	Secret    string
	AccessTTL time.Duration
	now       func() time.Time
}

func NewJWTProvider(secret string, accessTTL time.Duration) *JWTProvider {
	return &JWTProvider{
		Secret:    secret,
		AccessTTL: accessTTL,
		now:       time.Now,
	}
}

func (p *JWTProvider) GenerateToken(u user.User) (auth.Token, error) {
	if p.Secret == "" {
		return auth.Token{}, errors.New("jwt: signing secret is empty")
	}

	issuedAt := p.now()
	expiresAt := issuedAt.Add(p.AccessTTL)
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.Secret))
	if err != nil {
		return auth.Token{}, fmt.Errorf("jwt: sign token: %w", err)
	}
	return auth.Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// ParseToken verifies signature, algorithm and expiry and returns the
// identity the token was issued for.
func (p *JWTProvider) ParseToken(token string) (auth.Identity, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(p.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return auth.Identity{}, err
	}
	if !parsed.Valid {
		return auth.Identity{}, errors.New("jwt: invalid token")
	}
	if claims.UserID == "" {
		return auth.Identity{}, errors.New("jwt: missing user id")
	}

	return auth.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   user.Role(claims.Role),
	}, nil
}
