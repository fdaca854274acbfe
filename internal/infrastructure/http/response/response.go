package response

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
)

// MaxBodyBytes bounds request bodies read by Decode
const MaxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response. Error is the
// snake_case status text, e.g. "not_found".
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends err with status
func Error(w http.ResponseWriter, status int, err error) {
	JSON(w, status, ErrorResponse{
		Error:   Code(status),
		Message: err.Error(),
		Status:  status,
	})
}

// Code returns the error code for status
func Code(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}

// Decode reads a JSON request body into dst
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(dst); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}
