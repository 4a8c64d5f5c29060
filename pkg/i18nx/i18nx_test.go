package i18nx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoad(t *testing.T) {
	b, err := i18nx.Load(language.English)
	require.NoError(t, err)
	require.Equal(t, "en", b.Fallback().String())
	require.Len(t, b.Supported(), 2)

	_, err = i18nx.Load(language.German)
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	b := i18nx.Default()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ru", "ru", true},
		{"ru_RU", "ru", true},
		{"en-GB", "en", true},
		{"", "en", false},
		{"not a locale!", "en", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tag, ok := b.Parse(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, tag.String())
		})
	}
}

func TestT(t *testing.T) {
	b := i18nx.Default()

	en := i18nx.WithLocale(context.Background(), b, language.English)
	ru := i18nx.WithLocale(context.Background(), b, language.Russian)

	require.Equal(t, "There is an account with that email address: a@b.io",
		i18nx.T(en, "user.error.exist.email", "a@b.io"))
	require.Equal(t, "Аккаунт с таким адресом уже существует: a@b.io",
		i18nx.T(ru, "user.error.exist.email", "a@b.io"))

	// no locale in context falls back to English
	require.Equal(t, "Bad credentials", i18nx.T(context.Background(), "auth.bad.credentials"))
	require.Equal(t, "en", i18nx.Locale(context.Background()).String())

	// unknown keys print as the key
	require.Equal(t, "no.such.key", i18nx.T(en, "no.such.key"))
}

func TestResolve(t *testing.T) {
	b := i18nx.Default()

	t.Run("query wins", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?lang=ru", nil)
		r.AddCookie(&http.Cookie{Name: i18nx.CookieName, Value: "en"})
		require.Equal(t, "ru", i18nx.Resolve(b, r).String())
	})

	t.Run("cookie before header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: i18nx.CookieName, Value: "ru"})
		r.Header.Set("Accept-Language", "en-US,en;q=0.9")
		require.Equal(t, "ru", i18nx.Resolve(b, r).String())
	})

	t.Run("accept language", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.8")
		require.Equal(t, "ru", i18nx.Resolve(b, r).String())
	})

	t.Run("fallback", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept-Language", "de-DE")
		require.Equal(t, "en", i18nx.Resolve(b, r).String())
	})
}

func TestMiddlewareAndCookie(t *testing.T) {
	b := i18nx.Default()

	var got string
	h := i18nx.Middleware(b)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = i18nx.T(r.Context(), "auth.forbidden")
		i18nx.SetCookie(w, i18nx.Locale(r.Context()))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?lang=ru", nil))

	require.Equal(t, "Доступ запрещен", got)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, i18nx.CookieName, cookies[0].Name)
	require.Equal(t, "ru", cookies[0].Value)
}
