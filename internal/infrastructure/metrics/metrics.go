package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"strings"
)

// Agent-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Auth requests
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "auth_requests_total",
			Help:      "Total authentication requests",
		},
		[]string{"auth_type", "status"},
	)

	// Agents
	AgentsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "agents_created_total",
			Help:      "Total draft agents created",
		},
	)

	// Version lifecycle
	PublishesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "publishes_total",
			Help:      "Publish attempts by snapshot source and outcome",
		},
		[]string{"source_type", "status"},
	)

	RollbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "rollbacks_total",
			Help:      "Rollback attempts by outcome",
		},
		[]string{"status"},
	)

	// Invitations
	InvitationRedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "invitation_redemptions_total",
			Help:      "Invitation code redemption attempts by outcome",
		},
		[]string{"status"},
	)

	// Model registry probes
	ModelProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "model_probes_total",
			Help:      "Model endpoint connectivity probes by outcome",
		},
		[]string{"status"},
	)

	// Model endpoint health gauge
	ModelEndpointHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "model_endpoint_health",
			Help:      "Model endpoint health (1=available, 0=unavailable)",
		},
		[]string{"model"},
	)

	// Name suggestions
	SuggestionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "suggestion_requests_total",
			Help:      "Agent name suggestion calls by outcome",
		},
		[]string{"status"},
	)

	// User agent metrics (normalized to keep low cardinality)
	UserAgentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "user_agents_total",
			Help:      "Requests by normalized user agent",
		},
		[]string{"user_agent"},
	)

	UserAgentFamilyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agenthub",
			Subsystem: "agent_api",
			Name:      "user_agent_family_total",
			Help:      "Requests by user agent family (browser/cli/sdk/unknown)",
		},
		[]string{"family"},
	)
)

// RecordRequest records an HTTP request with all relevant labels
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordAuthRequest records an authentication attempt
func RecordAuthRequest(authType, status string) {
	AuthRequestsTotal.WithLabelValues(authType, status).Inc()
}

// RecordPublish records a publish attempt
func RecordPublish(sourceType, status string) {
	if sourceType == "" {
		sourceType = "unknown"
	}
	PublishesTotal.WithLabelValues(sourceType, status).Inc()
}

// RecordRollback records a rollback attempt
func RecordRollback(status string) {
	RollbacksTotal.WithLabelValues(status).Inc()
}

// RecordInvitationRedemption records an invitation redemption attempt
func RecordInvitationRedemption(status string) {
	if status == "" {
		status = "unknown"
	}
	InvitationRedemptionsTotal.WithLabelValues(status).Inc()
}

// RecordModelProbe records a connectivity probe outcome
func RecordModelProbe(status string) {
	ModelProbesTotal.WithLabelValues(status).Inc()
}

// SetModelEndpointHealth sets the health gauge for a model endpoint
func SetModelEndpointHealth(model string, available bool) {
	val := 0.0
	if available {
		val = 1.0
	}
	ModelEndpointHealth.WithLabelValues(model).Set(val)
}

// RecordSuggestion records a name suggestion call outcome
func RecordSuggestion(status string) {
	SuggestionRequestsTotal.WithLabelValues(status).Inc()
}

// RecordUserAgent records UA metrics with normalization and family bucketing
func RecordUserAgent(ua string) {
	norm := normalizeUserAgent(ua)
	family := userAgentFamily(norm)
	UserAgentsTotal.WithLabelValues(norm).Inc()
	UserAgentFamilyTotal.WithLabelValues(family).Inc()
}

func normalizeUserAgent(ua string) string {
	ua = strings.TrimSpace(strings.ToLower(ua))
	if ua == "" {
		return "unknown"
	}
	parts := strings.Fields(ua)
	norm := parts[0]
	if len(norm) > 60 {
		norm = norm[:60]
	}
	return norm
}

func userAgentFamily(normUA string) string {
	switch {
	case strings.Contains(normUA, "mozilla") || strings.Contains(normUA, "chrome") || strings.Contains(normUA, "safari") || strings.Contains(normUA, "firefox") || strings.Contains(normUA, "edge"):
		return "browser"
	case strings.Contains(normUA, "curl") || strings.Contains(normUA, "wget") || strings.Contains(normUA, "httpie"):
		return "cli"
	case strings.Contains(normUA, "postman") || strings.Contains(normUA, "insomnia"):
		return "api_client"
	case strings.Contains(normUA, "okhttp") || strings.Contains(normUA, "cfnetwork"):
		return "mobile"
	case strings.Contains(normUA, "axios") || strings.Contains(normUA, "fetch") || strings.Contains(normUA, "python-requests") || strings.Contains(normUA, "go-http-client") || strings.Contains(normUA, "java"):
		return "sdk"
	default:
		return "unknown"
	}
}
