package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Event         string          `json:"event"`   // e.g., "comment.created"
	Version       string          `json:"version"` // e.g., "v1"
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
	TraceID       string          `json:"traceId"`
	CorrelationID string          `json:"correlationId"`
}

type Headers struct {
	TraceID       string
	CorrelationID string
	Service       string
}

type headersKey struct{}

func NewEvent(eventName, version string, payload any, headers Headers) (*Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		Event:         eventName,
		Version:       version,
		Timestamp:     time.Now().UTC(),
		Payload:       body,
		TraceID:       headers.TraceID,
		CorrelationID: headers.CorrelationID,
	}, nil
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// DecodePayload unmarshals the payload into v.
func (e *Event) DecodePayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

func (e *Event) GetRoutingKey() string {
	return e.Event + "." + e.Version
}

func GenerateTraceID() string {
	return uuid.New().String()
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}

func ContextWithHeaders(ctx context.Context, headers Headers) context.Context {
	return context.WithValue(ctx, headersKey{}, headers)
}

// HeadersFromContext returns the headers stored on ctx, generating fresh
// trace and correlation ids for anything missing.
func HeadersFromContext(ctx context.Context, service string) Headers {
	headers, _ := ctx.Value(headersKey{}).(Headers)
	if headers.TraceID == "" {
		headers.TraceID = GenerateTraceID()
	}
	if headers.CorrelationID == "" {
		headers.CorrelationID = GenerateCorrelationID()
	}
	headers.Service = service
	return headers
}
