// Package reply builds the status, headers and JSON body returned by the
// handlers, independent of the transport carrying them.
package reply

import (
	"encoding/json"
	"net/http"

	service "github.com/okian/sitefn/internal/app"
	"github.com/okian/sitefn/internal/domain/failure"
	"github.com/okian/sitefn/internal/domain/model"
)

// Header names.
const (
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
	HeaderContentType  = "Content-Type"

	contentTypeJSON = "application/json"
)

// Reply is a complete handler response.
type Reply struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// CORS is a cross-origin policy attached to every reply of a handler.
type CORS struct {
	AllowOrigin  string
	AllowMethods string
	AllowHeaders string
}

// ContactCORS lets any origin read contact relay replies.
func ContactCORS() CORS {
	return CORS{AllowOrigin: "*"}
}

// CounterCORS locks visitor count replies to a single origin.
func CounterCORS(origin string) CORS {
	return CORS{
		AllowOrigin:  origin,
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Content-Type",
	}
}

// Headers renders the policy; empty fields are omitted.
func (c CORS) Headers() map[string]string {
	h := map[string]string{HeaderAllowOrigin: c.AllowOrigin}
	if c.AllowMethods != "" {
		h[HeaderAllowMethods] = c.AllowMethods
	}
	if c.AllowHeaders != "" {
		h[HeaderAllowHeaders] = c.AllowHeaders
	}
	return h
}

type messageBody struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

// JSON encodes v with the policy's headers.
func JSON(status int, cors CORS, v any) Reply {
	h := cors.Headers()
	h[HeaderContentType] = contentTypeJSON
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(errorBody{Error: http.StatusText(http.StatusInternalServerError)})
		status = http.StatusInternalServerError
	}
	return Reply{StatusCode: status, Headers: h, Body: string(b)}
}

// Preflight answers a CORS preflight with no body.
func Preflight(cors CORS) Reply {
	return Reply{StatusCode: http.StatusNoContent, Headers: cors.Headers()}
}

// ContactPreflightCORS is sent in reply to OPTIONS on the contact relay.
func ContactPreflightCORS() CORS {
	return CORS{AllowOrigin: "*", AllowMethods: "POST,OPTIONS", AllowHeaders: "Content-Type"}
}

// Contact shapes the outcome of a relay. Input errors surface their
// message; dependency errors surface a generic one.
func Contact(err error) Reply {
	cors := ContactCORS()
	if err == nil {
		return JSON(http.StatusOK, cors, messageBody{Message: service.MsgSent})
	}
	msg := service.MsgSendFailed
	if failure.KindOf(err) == failure.KindInput {
		msg = failure.MessageOf(err)
	}
	return JSON(http.StatusInternalServerError, cors, errorBody{Error: msg})
}

// Count shapes the outcome of an increment. Failures are not
// distinguished by cause.
func Count(origin string, n int64, err error) Reply {
	cors := CounterCORS(origin)
	if err != nil {
		return JSON(http.StatusInternalServerError, cors, errorBody{Error: service.MsgCountFailed})
	}
	return JSON(http.StatusOK, cors, model.VisitorCount{Count: n})
}

// MethodNotAllowed rejects a method with the policy's headers.
func MethodNotAllowed(cors CORS) Reply {
	return JSON(http.StatusMethodNotAllowed, cors, errorBody{Error: http.StatusText(http.StatusMethodNotAllowed)})
}
