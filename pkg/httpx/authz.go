package httpx

import (
	"net/http"

	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
)

// RequireAnyAuthority the caller must hold at least one of the authorities.
// Anonymous callers get 401, authenticated ones without a match get 403.
func RequireAnyAuthority(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id == nil {
				WriteUnauthorized(w, r)
				return
			}

			for _, a := range required {
				if id.HasAuthority(a) {
					next.ServeHTTP(w, r)
					return
				}
			}

			WriteForbidden(w, r)
		})
	}
}

// WriteUnauthorized answers with the 401 envelope.
func WriteUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer`)
	WriteError(w, http.StatusUnauthorized, i18nx.T(r.Context(), "auth.unauthorized"))
}

// WriteForbidden answers with the 403 envelope.
func WriteForbidden(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusForbidden, i18nx.T(r.Context(), "auth.forbidden"))
}
