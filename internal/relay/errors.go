package relay

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ConfigError reports a missing server-held credential for a provider. The
// request cannot proceed; there is no fallback to another provider.
type ConfigError struct {
	Provider string
}

func (e *ConfigError) Error() string {
	return providerLabel(e.Provider) + " API key not configured"
}

// ValidationError reports a provider identifier outside the supported set.
// It is raised before any network call.
type ValidationError struct {
	Provider string
}

func (e *ValidationError) Error() string {
	return "Unsupported provider: " + e.Provider
}

// VendorError reports a non-success HTTP response from a provider, carrying
// the vendor's status code and reported message when present.
type VendorError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("%s API error: %s", providerLabel(e.Provider), e.Message)
}

func providerLabel(provider string) string {
	switch provider {
	case "openai":
		return "OpenAI"
	case "anthropic":
		return "Anthropic"
	case "gemini":
		return "Gemini"
	}
	return provider
}

// vendorErrorBody is the error envelope all three vendors share.
type vendorErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// newVendorError reads the response body and extracts the vendor's error
// message, falling back to "Unknown error".
func newVendorError(provider string, resp *http.Response) *VendorError {
	message := "Unknown error"

	body, _ := io.ReadAll(resp.Body)
	var parsed vendorErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		message = parsed.Error.Message
	}

	return &VendorError{Provider: provider, StatusCode: resp.StatusCode, Message: message}
}
