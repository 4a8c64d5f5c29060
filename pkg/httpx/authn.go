package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
)

// TokenValidator checks bearer tokens and extracts the user they were issued to.
type TokenValidator interface {
	Validate(ctx context.Context, token string) bool
	UserID(token string) (string, error)
}

// IdentityLoader resolves a user id into the caller identity. Returning an
// error (for example a deleted user) leaves the request anonymous.
type IdentityLoader func(ctx context.Context, userID string) (*Identity, error)

// BearerToken returns the token of an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if len(authz) < len("Bearer ") || !strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authz[len("Bearer "):])
}

// OptionalAuthn authenticates requests carrying a valid bearer token. Requests
// without a token, or with one that fails validation, continue anonymously;
// routes that need a caller enforce it with RequireAnyAuthority.
func OptionalAuthn(v TokenValidator, load IdentityLoader) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := BearerToken(r)
			if raw == "" || !v.Validate(ctx, raw) {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := v.UserID(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			id, err := load(ctx, userID)
			if err != nil || id == nil {
				slogx.FromContext(ctx).Debug("bearer token user not loaded", "user_id", userID, "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithIdentity(ctx, id)
			ctx = slogx.With(ctx, "user_id", id.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
