package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"perfume-proxy/api/internal/llm"
)

type Engine struct {
	APIKey    string
	Model     string
	MaxTokens int64
	client    anthropic.Client
}

// New Messages API клиент без ретраев: одна попытка на запрос.
// opts идут после ключа, так что тесты и main могут подменить base URL и http.Client.
func New(key, model string, maxTokens int64, opts ...option.RequestOption) *Engine {
	key = strings.TrimSpace(key)
	base := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	return &Engine{
		APIKey:    key,
		Model:     strings.TrimSpace(model),
		MaxTokens: maxTokens,
		client:    anthropic.NewClient(append(base, opts...)...),
	}
}

func (e *Engine) Name() string { return "anthropic" }

func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Complete(ctx context.Context, prompt string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("ANTHROPIC_API_KEY is empty")
	}

	msg, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.Model),
		MaxTokens: e.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			// {"type":"error","error":{"type":"rate_limit_error","message":"..."}}
			text := gjson.Get(apiErr.RawJSON(), "error.message").String()
			return "", llm.NewUpstreamError(e.Name(), apiErr.StatusCode, text, err)
		}
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		b.WriteString(block.Text)
	}
	return b.String(), nil
}
