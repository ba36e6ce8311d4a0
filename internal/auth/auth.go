// Package auth carries the caller identity through the request context and
// exposes the single capability the escrow core consumes: proving that the
// current call was authorized by a given identity.
package auth

import (
	"context"

	"github.com/refinance/crowdfund/internal/domain"
)

type callerKey struct{}

// WithCaller binds the authenticated caller identity to the context. The JWT
// middleware is the production writer; tests call it directly.
func WithCaller(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, callerKey{}, identity)
}

// Caller returns the authenticated identity, or "" when the call is
// unauthenticated.
func Caller(ctx context.Context) string {
	if v, ok := ctx.Value(callerKey{}).(string); ok {
		return v
	}
	return ""
}

// Require succeeds only if the current call was authorized by identity.
// Every state-mutating escrow operation checks this before touching storage.
func Require(ctx context.Context, identity string) error {
	if identity == "" || Caller(ctx) != identity {
		return domain.ErrUnauthorized
	}
	return nil
}
