package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Gemini forwards requests to the Google Gemini generateContent API.
type Gemini struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGemini creates a Gemini client. An empty baseURL selects the vendor
// endpoint.
func NewGemini(apiKey, baseURL string) *Gemini {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &Gemini{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

// geminiRequest is the request body for the generateContent API.
type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata json.RawMessage `json:"usageMetadata"`
}

// Send performs one blocking generateContent round-trip. Gemini uses its own
// role names, so assistant turns are remapped to "model".
func (g *Gemini) Send(ctx context.Context, model string, messages []Message) (*ChatResponse, error) {
	if g.apiKey == "" {
		return nil, &ConfigError{Provider: "gemini"}
	}

	req := geminiRequest{Contents: make([]geminiContent, 0, len(messages))}
	for _, msg := range messages {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		req.Contents = append(req.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}
	req.GenerationConfig.Temperature = defaultTemperature
	req.GenerationConfig.MaxOutputTokens = defaultMaxTokens

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, model, url.QueryEscape(g.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newVendorError("gemini", resp)
	}

	var data geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(data.Candidates) == 0 || len(data.Candidates[0].Content.Parts) == 0 ||
		data.Candidates[0].Content.Parts[0].Text == "" {
		return nil, fmt.Errorf("no content returned from Gemini API")
	}

	return &ChatResponse{
		Content: data.Candidates[0].Content.Parts[0].Text,
		Usage:   data.UsageMetadata,
	}, nil
}
