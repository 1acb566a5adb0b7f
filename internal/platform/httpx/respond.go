// Package httpx provides the JSON response helpers shared by the v1 API.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Status is the {error, message} envelope every v1 endpoint answers with.
type Status struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Fail writes an error envelope.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Status{Error: true, Message: message})
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Status{Error: false, Message: message})
}
