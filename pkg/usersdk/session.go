package usersdk

import (
	"context"
	"net/http"
	"net/url"
)

// Session is an authenticated view of the service bound to one access token.
// Tokens are not refreshed: when it expires, log in again.
type Session struct {
	client *Client
	token  string
}

// Token returns the bearer token of the session.
func (s *Session) Token() string { return s.token }

// CurrentUser returns the authenticated user.
func (s *Session) CurrentUser(ctx context.Context) (*UserResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/auth/user", s.token, nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListSettings returns every setting of the authenticated user.
func (s *Session) ListSettings(ctx context.Context) ([]SettingResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/user/settings", s.token, nil)
	if err != nil {
		return nil, err
	}

	var settings []SettingResponse
	if err := decodeJSON(resp, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// CreateSetting stores a new setting for the authenticated user.
func (s *Session) CreateSetting(ctx context.Context, req SettingRequest) (*SettingResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/user/settings", s.token, req)
	if err != nil {
		return nil, err
	}

	var setting SettingResponse
	if err := decodeJSON(resp, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

// UpdateSetting overwrites the value of the setting with the given id.
func (s *Session) UpdateSetting(ctx context.Context, id string, req SettingRequest) (*SettingResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPut, "/user/settings/"+url.PathEscape(id), s.token, req)
	if err != nil {
		return nil, err
	}

	var setting SettingResponse
	if err := decodeJSON(resp, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}
