package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/okian/sitefn/internal/adapters/reply"
	"github.com/okian/sitefn/internal/domain/failure"
	"github.com/okian/sitefn/pkg/logger"
)

// maxBodyBytes bounds a contact submission.
const maxBodyBytes = 64 << 10

// ContactHandler handles contact submissions.
type ContactHandler struct {
	relay  Relayer
	logger logger.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(relay Relayer, l logger.Logger) *ContactHandler {
	return &ContactHandler{relay: relay, logger: l}
}

// HandleContact handles POST and OPTIONS /contact.
func (h *ContactHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	const op = "api.contact"
	switch r.Method {
	case http.MethodOptions:
		writeReply(w, reply.Preflight(reply.ContactPreflightCORS()))
		return
	case http.MethodPost:
	default:
		writeReply(w, reply.MethodNotAllowed(reply.ContactPreflightCORS()))
		return
	}

	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		err = failure.WrapKind(op, failure.KindInput, fmt.Errorf("Could not parse JSON body: %v", err)) //nolint:stylecheck // client-facing text
		h.logger.Warn(r.Context(), "unreadable contact body", logger.Error(err))
		writeReply(w, reply.Contact(err))
		return
	}
	writeReply(w, reply.Contact(h.relay.Relay(r.Context(), string(b))))
}
