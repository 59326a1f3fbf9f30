// Package testserver provides an image server for E2E tests.
package testserver

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Server wraps httptest.Server and records every request it serves.
type Server struct {
	*httptest.Server
	mu       sync.Mutex
	requests []*RecordedRequest
}

// RecordedRequest stores request details for verification.
type RecordedRequest struct {
	Method string
	Path   string
	Time   time.Time
}

// New creates a test server with the given routes. Unrouted paths serve a
// small JPEG body.
func New(routes map[string]http.HandlerFunc) *Server {
	s := &Server{}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.recordingWrapper(Handlers{}.Image("image/jpeg", JPEGBody)))
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, s.recordingWrapper(handler))
	}

	s.Server = httptest.NewServer(mux)
	return s
}

func (s *Server) recordingWrapper(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, &RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Time:   time.Now(),
		})
		s.mu.Unlock()
		h(w, r)
	}
}

// LastRequest returns the last recorded request.
func (s *Server) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

// RequestCount returns the number of recorded requests.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
