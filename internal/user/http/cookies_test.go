package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	userhttp "github.com/hogwartsschoolofmagic/user/internal/user/http"
	"github.com/stretchr/testify/require"
)

var cookieSecret = []byte("cookie-secret-cookie-secret-0123")

// replay copies the cookies set on rec into a fresh request.
func replay(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/login/oauth2/code/google", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestCookieRequestRepository(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		repo := userhttp.NewCookieRequestRepository(cookieSecret, false)
		rec := httptest.NewRecorder()
		err := repo.Save(rec, httptest.NewRequest(http.MethodGet, "/login/google", nil), userhttp.AuthorizationRequest{
			State:          "state-1",
			RegistrationID: "google",
			RedirectURI:    "http://localhost:3000/oauth2/redirect",
		})
		require.NoError(t, err)

		for _, c := range rec.Result().Cookies() {
			require.True(t, c.HttpOnly, c.Name)
			require.False(t, c.Secure, c.Name)
			require.Equal(t, 180, c.MaxAge, c.Name)
			require.NotContains(t, c.Value, "state-1", "the request is encrypted")
		}

		got, err := repo.Load(replay(rec))
		require.NoError(t, err)
		require.Equal(t, "state-1", got.State)
		require.Equal(t, "google", got.RegistrationID)

		uri, ok := repo.RedirectURI(replay(rec))
		require.True(t, ok)
		require.Equal(t, "http://localhost:3000/oauth2/redirect", uri)
	})

	t.Run("secure flag behind a proxy", func(t *testing.T) {
		repo := userhttp.NewCookieRequestRepository(cookieSecret, true)
		rec := httptest.NewRecorder()
		require.NoError(t, repo.Save(rec, httptest.NewRequest(http.MethodGet, "/login/google", nil),
			userhttp.AuthorizationRequest{State: "s", RegistrationID: "google", RedirectURI: "http://localhost:3000/cb"}))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 2)
		for _, c := range cookies {
			require.True(t, c.Secure, c.Name)
		}

		rec = httptest.NewRecorder()
		repo.Remove(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))
		for _, c := range rec.Result().Cookies() {
			require.True(t, c.Secure, c.Name)
			require.Equal(t, -1, c.MaxAge, c.Name)
		}
	})

	t.Run("other secret cannot read it", func(t *testing.T) {
		rec := httptest.NewRecorder()
		repo := userhttp.NewCookieRequestRepository(cookieSecret, false)
		require.NoError(t, repo.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil),
			userhttp.AuthorizationRequest{State: "s", RegistrationID: "google"}))

		other := userhttp.NewCookieRequestRepository([]byte("another-secret-another-secret-01"), false)
		_, err := other.Load(replay(rec))
		require.ErrorIs(t, err, userhttp.ErrInvalidAuthorizationRequest)
	})

	t.Run("expired", func(t *testing.T) {
		repo := userhttp.NewCookieRequestRepository(cookieSecret, false)
		repo.Now = func() time.Time { return time.Now().Add(-time.Hour) }

		rec := httptest.NewRecorder()
		require.NoError(t, repo.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil),
			userhttp.AuthorizationRequest{State: "s", RegistrationID: "google"}))

		repo.Now = nil
		_, err := repo.Load(replay(rec))
		require.ErrorIs(t, err, userhttp.ErrInvalidAuthorizationRequest)
	})

	t.Run("missing", func(t *testing.T) {
		repo := userhttp.NewCookieRequestRepository(cookieSecret, false)
		_, err := repo.Load(httptest.NewRequest(http.MethodGet, "/", nil))
		require.ErrorIs(t, err, userhttp.ErrNoAuthorizationRequest)
	})
}
