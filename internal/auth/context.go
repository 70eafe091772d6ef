package auth

import (
	"context"

	"github.com/propline/estatedesk/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// ContextWithIdentity returns a new context carrying the authenticated
// caller. Identity always travels explicitly; there is no ambient
// session state anywhere below the HTTP layer.
func ContextWithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the authenticated caller from the
// context, if any.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	if ctx == nil {
		return domain.Identity{}, false
	}
	value := ctx.Value(identityKey)
	if value == nil {
		return domain.Identity{}, false
	}
	identity, ok := value.(domain.Identity)
	return identity, ok
}
