package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"agenthub/services/agent-api/internal/config"
	"agenthub/services/agent-api/internal/domain/agent"
	"agenthub/services/agent-api/internal/infrastructure/observability"
	httpclients "agenthub/services/agent-api/internal/utils/httpclients"
	chatclient "agenthub/services/agent-api/internal/utils/httpclients/chat"
	"agenthub/services/agent-api/internal/utils/platformerrors"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
)

const (
	suggestMaxNameRunes = 50
	suggestMaxTokens    = 200

	nameSuggestSystemPrompt = "You name automation agents. Given a task description, reply with a JSON " +
		"array of short distinctive agent names, nothing else. Each name is at most " +
		"50 characters and contains no quotes."
)

// NameSuggester asks the deploy-time suggestion model for agent name
// candidates. Endpoint and key come from config, not the tenant registry,
// so suggestions work before a tenant has any model configured.
type NameSuggester struct {
	completion *chatclient.ChatCompletionClient
	apiKey     string
	model      string
}

func NewNameSuggester(cfg *config.Config) agent.NameSuggester {
	client := httpclients.NewClient("NameSuggestClient")
	return &NameSuggester{
		completion: chatclient.NewChatCompletionClient(client, "name-suggest", cfg.SuggestionBaseURL),
		apiKey:     cfg.SuggestionAPIKey,
		model:      cfg.SuggestionModel,
	}
}

func (s *NameSuggester) SuggestNames(ctx context.Context, description string, count int) ([]string, error) {
	ctx, span := observability.StartSpan(ctx, "NameSuggester.SuggestNames")
	defer span.End()

	if s.completion.BaseURL() == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal,
			"SUGGESTION_API_BASE_URL not configured", nil, "18ff5e0b-919e-4152-8512-3db400a2e78f")
	}
	if count <= 0 {
		count = 3
	}

	observability.AddSpanAttributes(ctx,
		attribute.String("suggest.model", s.model),
		attribute.Int("suggest.count", count),
	)

	request := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: nameSuggestSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Suggest %d names for an agent that handles this task:\n%s", count, description)},
		},
		Temperature: 0.8,
		MaxTokens:   suggestMaxTokens,
	}

	resp, err := s.completion.CreateChatCompletion(ctx, s.apiKey, request)
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, err
	}
	if len(resp.Choices) == 0 {
		err := platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"suggestion model returned no choices", nil, "74832ebb-6fbd-409d-bd17-2e6a1f2f8efe")
		observability.RecordError(ctx, err)
		return nil, err
	}

	names := parseNameList(resp.Choices[0].Message.Content)
	if len(names) == 0 {
		err := platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"suggestion model returned no usable names", nil, "a820cd5e-1778-4cf4-8134-87c5efd86e26")
		observability.RecordError(ctx, err)
		return nil, err
	}
	if len(names) > count {
		names = names[:count]
	}
	observability.AddSpanEvent(ctx, "names_parsed",
		attribute.Int("suggest.returned", len(names)))
	return names, nil
}

// parseNameList accepts a JSON array, a fenced JSON array, or plain lines.
// Models do not reliably honor the format instruction, so all three shapes
// are tolerated.
func parseNameList(content string) []string {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	if start := strings.Index(trimmed, "["); start >= 0 {
		if end := strings.LastIndex(trimmed, "]"); end > start {
			var arr []string
			if err := json.Unmarshal([]byte(trimmed[start:end+1]), &arr); err == nil {
				return cleanNames(arr)
			}
		}
	}

	return cleanNames(strings.Split(trimmed, "\n"))
}

func cleanNames(raw []string) []string {
	names := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		name := strings.TrimSpace(item)
		name = strings.TrimPrefix(name, "- ")
		name = strings.TrimPrefix(name, "* ")
		name = stripListOrdinal(name)
		name = strings.Trim(name, "\"'` ")
		if name == "" || utf8.RuneCountInString(name) > suggestMaxNameRunes {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}

// stripListOrdinal removes "1. " / "12) " style prefixes from a line.
func stripListOrdinal(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) {
		return line
	}
	if line[i] != '.' && line[i] != ')' {
		return line
	}
	return strings.TrimSpace(line[i+1:])
}
