package testserver

import (
	"net/http"
	"time"
)

// JPEGBody is the payload served for images.
const JPEGBody = "\xff\xd8\xff\xe0fake-jpeg\xff\xd9"

// Handlers provides reusable response handlers.
type Handlers struct{}

// Image returns a handler that serves body with the given content type.
func (Handlers) Image(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}
}

// Delayed returns a handler with simulated latency.
func (Handlers) Delayed(delay time.Duration, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		w.Write([]byte(body))
	}
}

// Status returns a handler that responds with just a status code.
func (Handlers) Status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}
