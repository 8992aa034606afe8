package auth

import (
	"context"
	"slices"

	"moviecatalog/user"
)

// Identity is the caller decoded from a verified bearer token.
type Identity struct {
	UserID string    `json:"userId"`
	Email  string    `json:"email"`
	Role   user.Role `json:"role"`
}

// HasRole reports whether the identity holds one of roles. An empty list
// accepts any authenticated caller.
func (i Identity) HasRole(roles ...user.Role) bool {
	return len(roles) == 0 || slices.Contains(roles, i.Role)
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
