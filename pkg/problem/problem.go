// Package problem writes RFC 7807 problem-details responses.
package problem

import (
	"encoding/json"
	"net/http"
)

const ContentType = "application/problem+json"

// Details is the problem-details envelope.
type Details struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// New builds a problem for status with the standard title.
func New(status int, detail string) Details {
	return Details{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// Write sends a problem response.
func Write(w http.ResponseWriter, status int, detail string) {
	WriteDetails(w, New(status, detail))
}

// WriteDetails sends p as the response body.
func WriteDetails(w http.ResponseWriter, p Details) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
