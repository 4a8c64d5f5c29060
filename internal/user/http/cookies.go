package http

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	authRequestCookie = "oauth2_auth_request"
	redirectURICookie = "redirect_uri"
	redirectURIParam  = "redirect_uri"

	authRequestTTL = 180 * time.Second
)

var (
	ErrNoAuthorizationRequest      = errors.New("oauth2 authorization request missing")
	ErrInvalidAuthorizationRequest = errors.New("oauth2 authorization request invalid or expired")
)

// AuthorizationRequest is an OAuth2 login in flight between the redirect to
// the provider and its callback.
type AuthorizationRequest struct {
	State          string    `json:"state"`
	RedirectURI    string    `json:"redirect_uri,omitempty"`
	RegistrationID string    `json:"registration_id"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// CookieRequestRepository keeps the in-flight authorization request in an
// encrypted, authenticated cookie so no server side session is needed.
type CookieRequestRepository struct {
	codec *securecookie.SecureCookie

	// Secure forces the Secure attribute, for deployments behind a TLS
	// terminating proxy. Requests served over TLS always get it.
	Secure bool
	Now    func() time.Time
}

// NewCookieRequestRepository derives the cookie signing and encryption keys from secret.
func NewCookieRequestRepository(secret []byte, secure bool) *CookieRequestRepository {
	hashKey := sha256.Sum256(append([]byte("oauth2-request-hash:"), secret...))
	blockKey := sha256.Sum256(append([]byte("oauth2-request-block:"), secret...))

	codec := securecookie.New(hashKey[:], blockKey[:]).
		MaxAge(int(authRequestTTL.Seconds())).
		SetSerializer(securecookie.JSONEncoder{})

	return &CookieRequestRepository{codec: codec, Secure: secure}
}

func (c *CookieRequestRepository) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Save stores req and, when req carries one, the client's redirect_uri.
// Callers only pass redirect URIs they have authorized.
func (c *CookieRequestRepository) Save(w http.ResponseWriter, r *http.Request, req AuthorizationRequest) error {
	req.ExpiresAt = c.now().Add(authRequestTTL).UTC()

	encoded, err := c.codec.Encode(authRequestCookie, req)
	if err != nil {
		return fmt.Errorf("encode authorization request: %w", err)
	}
	c.setCookie(w, r, authRequestCookie, encoded, authRequestTTL)

	if req.RedirectURI != "" {
		c.setCookie(w, r, redirectURICookie, req.RedirectURI, authRequestTTL)
	}
	return nil
}

// Load returns the request stored in r. Tampered, expired and missing
// cookies are all rejected.
func (c *CookieRequestRepository) Load(r *http.Request) (AuthorizationRequest, error) {
	cookie, err := r.Cookie(authRequestCookie)
	if err != nil || cookie.Value == "" {
		return AuthorizationRequest{}, ErrNoAuthorizationRequest
	}

	var req AuthorizationRequest
	if err := c.codec.Decode(authRequestCookie, cookie.Value, &req); err != nil {
		return AuthorizationRequest{}, fmt.Errorf("%w: %w", ErrInvalidAuthorizationRequest, err)
	}
	if req.State == "" || !c.now().Before(req.ExpiresAt) {
		return AuthorizationRequest{}, ErrInvalidAuthorizationRequest
	}
	return req, nil
}

// RedirectURI returns the redirect_uri cookie of r.
func (c *CookieRequestRepository) RedirectURI(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(redirectURICookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Remove expires both cookies.
func (c *CookieRequestRepository) Remove(w http.ResponseWriter, r *http.Request) {
	c.setCookie(w, r, authRequestCookie, "", -1)
	c.setCookie(w, r, redirectURICookie, "", -1)
}

func (c *CookieRequestRepository) setCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
