package i18nx

import (
	"net/http"
	"time"

	"golang.org/x/text/language"
)

const (
	// QueryParam switches the locale for a single request.
	QueryParam = "lang"

	// CookieName persists the chosen locale between requests.
	CookieName = "lang"

	cookieMaxAge = 365 * 24 * time.Hour
)

// Middleware resolves the request locale and attaches a printer to the
// context. Sources in order: the lang query parameter, the lang cookie,
// Accept-Language, then the bundle fallback.
func Middleware(b *Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := Resolve(b, r)
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), b, tag)))
		})
	}
}

// Resolve picks the locale for r.
func Resolve(b *Bundle, r *http.Request) language.Tag {
	if tag, ok := b.Parse(r.URL.Query().Get(QueryParam)); ok {
		return tag
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if tag, ok := b.Parse(c.Value); ok {
			return tag
		}
	}
	if prefs, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil {
		if tag, ok := b.Match(prefs...); ok {
			return tag
		}
	}
	return b.fallback
}

// SetCookie remembers tag as the caller's locale.
func SetCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
