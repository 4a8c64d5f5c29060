package httpx

import "context"

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID      string
	Authorities []string

	// Principal is the application's own view of the caller.
	Principal any
}

// HasAuthority reports whether the identity holds authority.
func (id *Identity) HasAuthority(authority string) bool {
	if id == nil {
		return false
	}
	for _, a := range id.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the authenticated caller, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(ctxKeyIdentity).(*Identity); ok {
		return v
	}
	return nil
}

// UserIDFromContext returns the authenticated user id or "".
func UserIDFromContext(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.UserID
	}
	return ""
}
