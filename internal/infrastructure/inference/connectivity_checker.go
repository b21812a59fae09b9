// Package inference talks to the OpenAI-compatible endpoints registered in
// the model registry: connectivity probes and the name suggestion model.
package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"agenthub/services/agent-api/internal/config"
	"agenthub/services/agent-api/internal/domain/modelregistry"
	"agenthub/services/agent-api/internal/infrastructure/observability"
	httpclients "agenthub/services/agent-api/internal/utils/httpclients"
	chatclient "agenthub/services/agent-api/internal/utils/httpclients/chat"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

const defaultConnectivityTimeout = 10 * time.Second

// ModelConnectivityChecker probes a model endpoint by listing its models,
// the cheapest call every OpenAI-compatible server answers.
type ModelConnectivityChecker struct {
	timeout time.Duration
}

func NewModelConnectivityChecker(cfg *config.Config) modelregistry.ConnectivityChecker {
	timeout := cfg.ConnectivityTimeout
	if timeout <= 0 {
		timeout = defaultConnectivityTimeout
	}
	return &ModelConnectivityChecker{timeout: timeout}
}

// Check expects mc.APIKey already decrypted by the caller.
func (c *ModelConnectivityChecker) Check(ctx context.Context, mc *modelregistry.ModelConfig) error {
	ctx, span := observability.StartSpan(ctx, "ModelConnectivityChecker.Check")
	defer span.End()

	observability.AddSpanAttributes(ctx,
		attribute.String("model.public_id", mc.PublicID),
		attribute.String("model.name", mc.Name),
	)

	if strings.TrimSpace(mc.BaseURL) == "" {
		err := platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("model config %s has no base URL", mc.PublicID), nil, "93bc697b-51eb-41d5-96f4-1871254a7fe9")
		observability.RecordError(ctx, err)
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client := httpclients.NewClient(fmt.Sprintf("%sClient", mc.PublicID))
	modelClient := chatclient.NewChatModelClient(client, mc.Name, mc.BaseURL)

	apiKey := mc.APIKey
	if strings.ToLower(strings.TrimSpace(apiKey)) == "none" {
		apiKey = ""
	}

	if _, err := modelClient.ListModels(ctx, apiKey); err != nil {
		observability.RecordError(ctx, err)
		return err
	}
	observability.SetSpanStatus(ctx, codes.Ok, "model endpoint reachable")
	return nil
}
