package usersdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ValidationErrorName is the Error value of a 400 response produced by body validation.
const ValidationErrorName = "registerDto"

// APIError is a non-2xx response from the service.
type APIError struct {
	// StatusCode is the HTTP status of the response
	StatusCode int

	// Message is the envelope message (localized)
	Message string

	// Name is the envelope error field, e.g. "Unauthorized" or "registerDto"
	Name string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("usersdk: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("usersdk: HTTP %d: %s", e.StatusCode, e.Message)
}

// FieldErrors decodes the per-field validation failures carried in Message.
// It returns nil for anything that is not a validation failure.
func (e *APIError) FieldErrors() []FieldError {
	if e.StatusCode != http.StatusBadRequest {
		return nil
	}
	var fields []FieldError
	if err := json.Unmarshal([]byte(e.Message), &fields); err != nil {
		return nil
	}
	return fields
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == code
}

// parseErrorResponse turns a non-2xx body into an *APIError. Bodies that are
// not an envelope (a proxy error page, for example) keep only the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var env rawResponse
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Message = env.Message
		apiErr.Name = env.Error
	}
	if apiErr.Message == "" && apiErr.Name == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
