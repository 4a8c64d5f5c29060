package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/hogwartsschoolofmagic/user/pkg/usersdk"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes an envelope carrying only a message.
func WriteMessage(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, usersdk.Response{Message: message})
}

// WriteData writes an envelope carrying only data.
func WriteData(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, usersdk.Response{Data: data})
}

// WriteError writes an error envelope; the error field is the status text.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, usersdk.Response{Message: message, Error: http.StatusText(code)})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
