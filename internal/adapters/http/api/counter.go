package api

import (
	"net/http"

	"github.com/okian/sitefn/internal/adapters/reply"
)

// CounterHandler handles visitor count requests.
type CounterHandler struct {
	counter Incrementer
	origin  string
}

// NewCounterHandler creates a new counter handler locked to origin.
func NewCounterHandler(counter Incrementer, origin string) *CounterHandler {
	return &CounterHandler{counter: counter, origin: origin}
}

// HandleCount handles GET and OPTIONS /count.
func (h *CounterHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	cors := reply.CounterCORS(h.origin)
	switch r.Method {
	case http.MethodOptions:
		writeReply(w, reply.Preflight(cors))
	case http.MethodGet:
		n, err := h.counter.Increment(r.Context())
		writeReply(w, reply.Count(h.origin, n, err))
	default:
		writeReply(w, reply.MethodNotAllowed(cors))
	}
}
