// Package api mounts the handlers on a net/http mux for local development.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/sitefn/internal/adapters/reply"
	"github.com/okian/sitefn/pkg/logger"
)

// Relayer is the contact operation.
type Relayer interface {
	Relay(ctx context.Context, body string) error
}

// Incrementer is the counter operation.
type Incrementer interface {
	Increment(ctx context.Context) (int64, error)
}

// Server wires HTTP routes for both handlers.
type Server struct {
	healthHandler  *HealthHandler
	contactHandler *ContactHandler
	counterHandler *CounterHandler
	logger         logger.Logger
}

// NewServer creates a server over the two services.
func NewServer(relay Relayer, counter Incrementer, origin string, l logger.Logger) *Server {
	if l == nil {
		l = logger.Nop()
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		contactHandler: NewContactHandler(relay, l),
		counterHandler: NewCounterHandler(counter, origin),
		logger:         l,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	wrap := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return RequestIDMiddleware(MetricsMiddleware(h, endpoint), s.logger)
	}
	mux.HandleFunc("/healthz", wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/contact", wrap(s.contactHandler.HandleContact, "contact"))
	mux.HandleFunc("/count", wrap(s.counterHandler.HandleCount, "count"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeReply(w http.ResponseWriter, r reply.Reply) {
	for k, v := range r.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(r.StatusCode)
	if r.Body != "" {
		_, _ = w.Write([]byte(r.Body))
	}
}
