package usersdk

import "encoding/json"

// ============================================================================
// Envelope
// ============================================================================

// Response is the envelope every JSON endpoint answers with. Message carries a
// human readable (localized) text, Data an optional payload and Error a short
// error name when the request failed.
type Response struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// rawResponse is Response as seen by the client, with Data left undecoded.
type rawResponse struct {
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// FieldError describes one rejected field of a validated request body.
type FieldError struct {
	Field          string `json:"field"`
	DefaultMessage string `json:"defaultMessage"`
}

// ============================================================================
// Auth Types
// ============================================================================

// LoginRequest is the body of PATCH /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	MatchingPassword string `json:"matchingPassword"`
}

// UserResponse is the public view of the authenticated user.
type UserResponse struct {
	ID       string `json:"id"`
	Fullname string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

// ============================================================================
// Setting Types
// ============================================================================

// SettingRequest creates or updates a user setting.
type SettingRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SettingResponse is a stored user setting.
type SettingResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of the service dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}
