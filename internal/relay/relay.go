// Package relay forwards chat requests to hosted LLM providers using
// server-held credentials, normalizing the divergent vendor wire formats
// into a single response shape.
package relay

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"aichorus/internal/config"
)

// Message is a single turn of the conversation history sent to a provider.
type Message struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}

// ChatResponse is the normalized provider reply.
type ChatResponse struct {
	Content string          `json:"content"`
	Usage   json.RawMessage `json:"usage,omitempty"`
}

// Relay dispatches chat requests to the provider named in each call. It holds
// no per-request state and is safe for concurrent use.
type Relay struct {
	openai    *OpenAI
	anthropic *Anthropic
	gemini    *Gemini
	logger    *zap.Logger

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// New builds a relay from the configured credentials and endpoint overrides.
func New(cfg *config.Config, logger *zap.Logger) *Relay {
	return &Relay{
		openai:    NewOpenAI(cfg.APIKey("openai"), cfg.BaseURL("openai")),
		anthropic: NewAnthropic(cfg.APIKey("anthropic"), cfg.BaseURL("anthropic")),
		gemini:    NewGemini(cfg.APIKey("gemini"), cfg.BaseURL("gemini")),
		logger:    logger,
	}
}

// Send forwards the ordered message history to the named provider and returns
// the normalized response. One blocking round-trip, no retries.
func (r *Relay) Send(ctx context.Context, provider, model string, messages []Message) (*ChatResponse, error) {
	var send func(context.Context, string, []Message) (*ChatResponse, error)

	switch provider {
	case "openai":
		send = r.openai.Send
	case "anthropic":
		send = r.anthropic.Send
	case "gemini":
		send = r.gemini.Send
	default:
		return nil, &ValidationError{Provider: provider}
	}

	r.logDispatch(provider, model, messages)

	return send(ctx, model, messages)
}

// encoding lazily loads the token encoding used for debug-level prompt size
// estimates. A load failure (e.g. the encoding file cannot be fetched) is not
// fatal; estimates are simply skipped.
func (r *Relay) encoding() *tiktoken.Tiktoken {
	r.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			r.logger.Warn("token encoding unavailable, prompt size estimates disabled", zap.Error(err))
			return
		}
		r.enc = enc
	})
	return r.enc
}

func (r *Relay) logDispatch(provider, model string, messages []Message) {
	ce := r.logger.Check(zap.DebugLevel, "dispatching chat request")
	if ce == nil {
		return
	}

	fields := []zap.Field{
		zap.String("provider", provider),
		zap.String("model", model),
		zap.Int("messages", len(messages)),
	}
	if enc := r.encoding(); enc != nil {
		tokens := 0
		for _, m := range messages {
			tokens += len(enc.Encode(m.Content, nil, nil))
		}
		fields = append(fields, zap.Int("approx_prompt_tokens", tokens))
	}
	ce.Write(fields...)
}
