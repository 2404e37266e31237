package models

// ModelInfo describes a single selectable model for a provider.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProviderInfo describes a hosted LLM provider and its model list.
type ProviderInfo struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Models []ModelInfo `json:"models"`
}

// Providers is the static catalog the UI renders its provider and model
// selectors from.
var Providers = []ProviderInfo{
	{
		ID:   "openai",
		Name: "OpenAI GPT",
		Models: []ModelInfo{
			{ID: "gpt-4", Name: "GPT-4", Description: "Most capable model, best for complex tasks"},
			{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Description: "Faster and more cost-effective than GPT-4"},
			{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "Fast and efficient for most tasks"},
		},
	},
	{
		ID:   "anthropic",
		Name: "Anthropic Claude",
		Models: []ModelInfo{
			{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", Description: "Most intelligent model, best for complex reasoning"},
			{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Description: "Fastest model, great for quick responses"},
		},
	},
	{
		ID:   "gemini",
		Name: "Google Gemini",
		Models: []ModelInfo{
			{ID: "gemini-1.5-pro-latest", Name: "Gemini 1.5 Pro", Description: "Most capable model with large context window"},
			{ID: "gemini-1.5-flash-latest", Name: "Gemini 1.5 Flash", Description: "Fast and efficient for most tasks"},
		},
	},
}

// ValidProvider reports whether id names a provider in the catalog.
func ValidProvider(id string) bool {
	for _, p := range Providers {
		if p.ID == id {
			return true
		}
	}
	return false
}
