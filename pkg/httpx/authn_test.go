package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hogwartsschoolofmagic/user/pkg/httpx"
	"github.com/hogwartsschoolofmagic/user/pkg/usersdk"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	valid map[string]string // token -> user id
}

func (f fakeValidator) Validate(_ context.Context, token string) bool {
	_, ok := f.valid[token]
	return ok
}

func (f fakeValidator) UserID(token string) (string, error) {
	if id, ok := f.valid[token]; ok {
		return id, nil
	}
	return "", errors.New("unknown token")
}

func loader(ctx context.Context, userID string) (*httpx.Identity, error) {
	if userID == "deleted" {
		return nil, errors.New("not found")
	}
	return &httpx.Identity{UserID: userID, Authorities: []string{"ROLE_USER", "USER_READ"}}, nil
}

func whoami() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(httpx.UserIDFromContext(r.Context())))
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer   abc  ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			require.Equal(t, tt.want, httpx.BearerToken(r))
		})
	}
}

func TestOptionalAuthn(t *testing.T) {
	v := fakeValidator{valid: map[string]string{"good": "u1", "orphan": "deleted"}}
	h := httpx.OptionalAuthn(v, loader)(whoami())

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header continues anonymously", "", ""},
		{"invalid token continues anonymously", "Bearer bad", ""},
		{"valid token sets identity", "Bearer good", "u1"},
		{"missing user continues anonymously", "Bearer orphan", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRequireAuthorities(t *testing.T) {
	withID := func(id *httpx.Identity) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if id != nil {
			r = r.WithContext(httpx.WithIdentity(r.Context(), id))
		}
		return r
	}
	user := &httpx.Identity{UserID: "u1", Authorities: []string{"ROLE_USER", "USER_READ"}}

	t.Run("anonymous", func(t *testing.T) {
		h := httpx.RequireAnyAuthority("ROLE_USER")(whoami())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withID(nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

		var env usersdk.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.Equal(t, "Unauthorized", env.Error)
		require.NotEmpty(t, env.Message)
	})

	t.Run("any authority", func(t *testing.T) {
		h := httpx.RequireAnyAuthority("ROLE_ADMIN", "ROLE_USER")(whoami())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withID(user))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, withID(&httpx.Identity{UserID: "u2"}))
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, withID(nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("a"), mw("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "handler"}, order)
}
