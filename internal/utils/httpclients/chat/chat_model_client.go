package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"agenthub/services/agent-api/internal/utils/platformerrors"

	"resty.dev/v3"
)

type ChatModelClient struct {
	client  *resty.Client
	baseURL string
	name    string
}

type ModelsResponse struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

type Model struct {
	ID          string         `json:"id"`
	Object      string         `json:"object"`
	OwnedBy     string         `json:"owned_by"`
	Created     int            `json:"created"`
	DisplayName string         `json:"display_name"`
	Name        string         `json:"name"`
	Raw         map[string]any `json:"-"`
}

func (m *Model) UnmarshalJSON(data []byte) error {
	type Alias Model
	aux := Alias{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Model(aux)
	m.Raw = raw
	if m.DisplayName == "" {
		if display, ok := raw["display_name"].(string); ok && display != "" {
			m.DisplayName = display
		} else if name, ok := raw["name"].(string); ok && name != "" {
			m.DisplayName = name
		} else {
			m.DisplayName = m.ID
		}
	}
	if m.Name == "" {
		if name, ok := raw["name"].(string); ok {
			m.Name = name
		}
	}
	if m.OwnedBy == "" {
		if ownedBy, ok := raw["owned_by"].(string); ok {
			m.OwnedBy = ownedBy
		}
	}
	if created, ok := raw["created"]; ok {
		if createdInt, castOK := created.(float64); castOK {
			m.Created = int(createdInt)
		} else if createdInt, castOK := created.(int); castOK {
			m.Created = createdInt
		}
	}
	return nil
}

func NewChatModelClient(client *resty.Client, name, baseURL string) *ChatModelClient {
	return &ChatModelClient{
		client:  client,
		baseURL: normalizeBaseURL(baseURL),
		name:    name,
	}
}

// ListModels hits the OpenAI-compatible model listing endpoint. Tenant model
// endpoints carry per-config keys, so the key travels with the request rather
// than with the client.
func (c *ChatModelClient) ListModels(ctx context.Context, apiKey string) (*ModelsResponse, error) {
	var respBody ModelsResponse
	req := c.client.R().SetContext(ctx).SetResult(&respBody)
	if strings.TrimSpace(apiKey) != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}
	resp, err := req.Get(c.endpoint("/models"))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, "list models request failed")
	}
	return &respBody, nil
}

func (c *ChatModelClient) endpoint(path string) string {
	if path == "" {
		return c.baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if c.baseURL == "" {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return c.baseURL + path
	}
	return c.baseURL + "/" + path
}

func (c *ChatModelClient) errorFromResponse(ctx context.Context, resp *resty.Response, message string) error {
	if resp == nil || resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, fmt.Sprintf("%s with status %d", message, statusCode(resp)), nil, "347c947b-4cfa-4ca1-90fe-b3db877a8836")
	}
	defer resp.RawResponse.Body.Close()
	body, err := io.ReadAll(resp.RawResponse.Body)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, fmt.Sprintf("%s with status %d", message, statusCode(resp)), nil, "0b1a29db-a455-4f65-8f88-12a3828557b5")
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, fmt.Sprintf("%s with status %d", message, statusCode(resp)), nil, "1c9e9b04-b49a-4cbf-a34d-69eb9b691984")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, fmt.Sprintf("%s with status %d: %s", message, statusCode(resp), trimmed), nil, "e2b9404f-5359-443d-886c-2e463419b146")
}
