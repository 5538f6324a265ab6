// Package respond writes the JSON envelope every API endpoint uses:
//
//	{ "success": true,  "data": ..., "message": "...", "pagination": {...} }
//	{ "success": false, "error": "human-readable reason" }
//
// Handlers map store sentinel errors to stable status codes here so that
// driver- or store-specific errors never leak to callers.
package respond

import (
	"encoding/json"
	"net/http"
)

// Pagination describes a page-numbered result set.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// Envelope is the response body shape shared by all endpoints.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	// Warning carries non-fatal problems (e.g. a failed best-effort
	// activity write) without failing the request.
	Warning string `json:"warning,omitempty"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// JSON writes a success envelope with data.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Envelope{Success: true, Data: data})
}

// Message writes a success envelope with data and a human-readable message.
func Message(w http.ResponseWriter, status int, data interface{}, msg string) {
	write(w, status, Envelope{Success: true, Data: data, Message: msg})
}

// Page writes a success envelope with data and pagination metadata.
func Page(w http.ResponseWriter, status int, data interface{}, p Pagination) {
	write(w, status, Envelope{Success: true, Data: data, Pagination: &p})
}

// WithWarning writes a success envelope carrying a warning string.
func WithWarning(w http.ResponseWriter, status int, data interface{}, warning string) {
	write(w, status, Envelope{Success: true, Data: data, Warning: warning})
}

// Error writes a failure envelope with the given status and reason.
func Error(w http.ResponseWriter, status int, reason string) {
	write(w, status, Envelope{Success: false, Error: reason})
}

// Convenience wrappers for the statuses the API actually uses.

func BadRequest(w http.ResponseWriter, reason string) { Error(w, http.StatusBadRequest, reason) }

func Unauthorized(w http.ResponseWriter, reason string) { Error(w, http.StatusUnauthorized, reason) }

func Forbidden(w http.ResponseWriter, reason string) { Error(w, http.StatusForbidden, reason) }

func NotFound(w http.ResponseWriter, reason string) { Error(w, http.StatusNotFound, reason) }

func Conflict(w http.ResponseWriter, reason string) { Error(w, http.StatusConflict, reason) }

// ServerError hides internal detail behind a fixed message; the handler
// is expected to have logged the underlying error already.
func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "an internal error occurred")
}
