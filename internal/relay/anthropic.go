package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion     = "2023-06-01"

	defaultTemperature = 0.7
	defaultMaxTokens   = 4000
)

// Anthropic forwards requests to the Anthropic messages API.
type Anthropic struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAnthropic creates an Anthropic client. An empty baseURL selects the
// vendor endpoint.
func NewAnthropic(apiKey, baseURL string) *Anthropic {
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	return &Anthropic{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// anthropicRequest is the request body for the Anthropic messages API.
type anthropicRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage json.RawMessage `json:"usage"`
}

// Send performs one blocking messages round-trip.
func (a *Anthropic) Send(ctx context.Context, model string, messages []Message) (*ChatResponse, error) {
	if a.apiKey == "" {
		return nil, &ConfigError{Provider: "anthropic"}
	}

	body, err := json.Marshal(anthropicRequest{
		Model:       model,
		MaxTokens:   defaultMaxTokens,
		Messages:    messages,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newVendorError("anthropic", resp)
	}

	var data anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(data.Content) == 0 {
		return nil, fmt.Errorf("Anthropic response contained no content blocks")
	}

	return &ChatResponse{
		Content: data.Content[0].Text,
		Usage:   data.Usage,
	}, nil
}
