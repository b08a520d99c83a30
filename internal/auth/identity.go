// Package auth holds the authentication primitives of the API: the verified
// request Identity, the bearer token manager, and password hashing.
package auth

import "context"

// Identity is the verified caller of a protected request. It is produced only
// by TokenManager.Verify and scopes every resource-store operation.
type Identity struct {
	UserID string
}

type identityKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the Identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}
