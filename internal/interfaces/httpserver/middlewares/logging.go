package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Probe endpoints are polled every few seconds by the orchestrator and
// would drown out real traffic in logs and traces.
var probePaths = map[string]struct{}{
	"/healthz":     {},
	"/readyz":      {},
	"/healthcheck": {},
}

// LoggingMiddleware emits one structured log line per request, correlated
// with the active trace and the authenticated principal when present.
func LoggingMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if _, skip := probePaths[path]; skip && c.Writer.Status() < 400 {
			return
		}

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		logEvent := logger.Info()
		if statusCode >= 500 {
			logEvent = logger.Error()
		} else if statusCode >= 400 {
			logEvent = logger.Warn()
		}

		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			logEvent = logEvent.
				Str("trace_id", span.SpanContext().TraceID().String()).
				Str("span_id", span.SpanContext().SpanID().String())
		}

		if requestID := RequestIDFromContext(c); requestID != "" {
			logEvent = logEvent.Str("request_id", requestID)
		}

		// Auth runs inside route groups, so the principal is only
		// visible here after the handler chain completed.
		if principal, ok := PrincipalFromContext(c); ok {
			logEvent = logEvent.
				Str("user_id", principal.UserID).
				Str("tenant_id", principal.TenantID)
		}

		logEvent.
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", raw).
			Int("status", statusCode).
			Dur("latency", latency).
			Str("user_agent", c.Request.UserAgent()).
			Msg(errorMessage)
	}
}
