// Package lambda adapts API Gateway proxy events to the services.
package lambda

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/okian/sitefn/internal/adapters/reply"
	service "github.com/okian/sitefn/internal/app"
	"github.com/okian/sitefn/internal/domain/failure"
	"github.com/okian/sitefn/pkg/logger"
)

// Relayer is the contact operation invoked per event.
type Relayer interface {
	Relay(ctx context.Context, body string) error
}

// Incrementer is the counter operation invoked per event.
type Incrementer interface {
	Increment(ctx context.Context) (int64, error)
}

var (
	_ Relayer     = (*service.ContactRelay)(nil)
	_ Incrementer = (*service.VisitorCounter)(nil)
)

// ContactHandler serves the contact relay.
type ContactHandler struct {
	relay  Relayer
	logger logger.Logger
}

// NewContactHandler wraps relay.
func NewContactHandler(relay Relayer, l logger.Logger) *ContactHandler {
	return &ContactHandler{relay: relay, logger: l}
}

// Handle never returns an error: every failure becomes a structured reply.
func (h *ContactHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	const op = "lambda.contact"
	ctx = withRequestID(ctx)
	h.logger.Debug(ctx, "event received", logger.Any("event", req))

	switch req.HTTPMethod {
	case http.MethodOptions:
		return toResponse(reply.Preflight(reply.ContactPreflightCORS())), nil
	case http.MethodPost:
	default:
		h.logger.Warn(ctx, "method not allowed", logger.String("method", req.HTTPMethod))
		return toResponse(reply.MethodNotAllowed(reply.ContactPreflightCORS())), nil
	}

	body, err := eventBody(req)
	if err != nil {
		err = failure.WrapKind(op, failure.KindInput, err)
		h.logger.Warn(ctx, "undecodable event body", logger.Error(err))
		return toResponse(reply.Contact(err)), nil
	}
	return toResponse(reply.Contact(h.relay.Relay(ctx, body))), nil
}

// CounterHandler serves the visitor counter.
type CounterHandler struct {
	counter Incrementer
	origin  string
	logger  logger.Logger
}

// NewCounterHandler wraps counter; origin is the single allowed origin.
func NewCounterHandler(counter Incrementer, origin string, l logger.Logger) *CounterHandler {
	return &CounterHandler{counter: counter, origin: origin, logger: l}
}

// Handle never returns an error: every failure becomes a structured reply.
func (h *CounterHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ctx = withRequestID(ctx)
	h.logger.Debug(ctx, "event received", logger.String("method", req.HTTPMethod), logger.String("path", req.Path))

	cors := reply.CounterCORS(h.origin)
	switch req.HTTPMethod {
	case http.MethodOptions:
		return toResponse(reply.Preflight(cors)), nil
	case http.MethodGet:
	default:
		h.logger.Warn(ctx, "method not allowed", logger.String("method", req.HTTPMethod))
		return toResponse(reply.MethodNotAllowed(cors)), nil
	}

	n, err := h.counter.Increment(ctx)
	return toResponse(reply.Count(h.origin, n, err)), nil
}

func eventBody(req events.APIGatewayProxyRequest) (string, error) {
	if !req.IsBase64Encoded || req.Body == "" {
		return req.Body, nil
	}
	b, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return "", fmt.Errorf("Could not parse JSON body: %v", err) //nolint:stylecheck // client-facing text
	}
	return string(b), nil
}

// withRequestID tags ctx with the Lambda request id.
func withRequestID(ctx context.Context) context.Context {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return logger.WithRequestID(ctx, lc.AwsRequestID)
	}
	return ctx
}

func toResponse(r reply.Reply) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       r.Body,
	}
}
