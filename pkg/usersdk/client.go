package usersdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a client for the user account service. It covers the public
// endpoints and creates authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Locale, when set, is sent as Accept-Language so messages come back translated.
	Locale string
}

// NewClient creates a new user service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			// OAuth2 endpoints answer with redirects the caller usually wants to inspect.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// NewSession wraps an already issued access token.
func (c *Client) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}

// Register creates a local account and triggers the confirmation mail.
// The returned string is the service message.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/register", "", req)
	if err != nil {
		return "", err
	}

	env, err := decodeEnvelope(resp, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ConfirmResult is the outcome of a confirmation attempt. An expired token is
// not an error: the service answers with the stale token value so the caller
// can ask for a new one.
type ConfirmResult struct {
	Message      string
	ExpiredToken string
}

// Expired reports whether the confirmation token had already expired.
func (r ConfirmResult) Expired() bool { return r.ExpiredToken != "" }

// ConfirmRegistration verifies the email address owning token.
func (c *Client) ConfirmRegistration(ctx context.Context, token string) (*ConfirmResult, error) {
	path := "/auth/registrationConfirm?token=" + url.QueryEscape(token)
	resp, err := c.doRequest(ctx, http.MethodPut, path, "", nil)
	if err != nil {
		return nil, err
	}

	var stale string
	env, err := decodeEnvelope(resp, &stale)
	if err != nil {
		return nil, err
	}
	return &ConfirmResult{Message: env.Message, ExpiredToken: stale}, nil
}

// ResendRegistrationToken replaces oldToken with a fresh one and mails it again.
func (c *Client) ResendRegistrationToken(ctx context.Context, oldToken string) (string, error) {
	path := "/auth/resendRegistrationToken?oldToken=" + url.QueryEscape(oldToken)
	resp, err := c.doRequest(ctx, http.MethodPut, path, "", nil)
	if err != nil {
		return "", err
	}

	env, err := decodeEnvelope(resp, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Login exchanges email and password for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPatch, "/auth/login", "", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var token string
	if _, err := decodeEnvelope(resp, &token); err != nil {
		return nil, err
	}
	return c.NewSession(token), nil
}

// Logout clears the OAuth2 flow cookies held by the service.
func (c *Client) Logout(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/logout", "", nil)
	if err != nil {
		return "", err
	}

	env, err := decodeEnvelope(resp, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
