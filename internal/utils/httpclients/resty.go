package httpclients

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"resty.dev/v3"

	"agenthub/services/agent-api/internal/config"
	"agenthub/services/agent-api/internal/infrastructure/logger"
)

type startsAtKey struct{}
type requestBodyKey struct{}

// NewClient builds a resty client that logs one debug line per outbound
// call, correlated with the active trace. clientName labels the target so
// calls against different model endpoints stay distinguishable.
func NewClient(clientName string) *resty.Client {
	client := resty.New()
	client.SetHeader("User-Agent", "agent-api/"+config.Version)

	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		ctx := context.WithValue(r.Context(), startsAtKey{}, time.Now())
		ctx = context.WithValue(ctx, requestBodyKey{}, r.Body)
		r.SetContext(ctx)
		return nil
	})

	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		log := logger.GetLogger()
		startTime, _ := r.Request.Context().Value(startsAtKey{}).(time.Time)
		requestBody := r.Request.Context().Value(requestBodyKey{})

		var responseBody any
		if !r.Request.DoNotParseResponse {
			responseBody = r.Result()
		}

		logEvent := log.Debug().
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Str("method", r.Request.RawRequest.Method).
			Str("path", r.Request.RawRequest.URL.Path).
			Str("query", r.Request.RawRequest.URL.RawQuery).
			Interface("req_body", requestBody).
			Interface("resp_body", responseBody).
			Dur("latency", time.Since(startTime))

		if span := trace.SpanFromContext(r.Request.Context()); span.SpanContext().IsValid() {
			logEvent = logEvent.Str("trace_id", span.SpanContext().TraceID().String())
		}

		logEvent.Msg("HTTP client request")
		return nil
	})

	return client
}
