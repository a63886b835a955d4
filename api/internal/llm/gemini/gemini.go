package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"perfume-proxy/api/internal/llm"
)

type Engine struct {
	APIKey    string
	Model     string
	MaxTokens int32
	opts      []option.ClientOption
}

func New(apiKey, model string, maxTokens int32, opts ...option.ClientOption) *Engine {
	return &Engine{
		APIKey:    strings.TrimSpace(apiKey),
		Model:     strings.TrimSpace(model),
		MaxTokens: maxTokens,
		opts:      opts,
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Complete тот же промпт, что и для Claude. Сами не повторяем; REST-клиент genai
// повторяет только ответы 503.
func (e *Engine) Complete(ctx context.Context, prompt string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	opts := append([]option.ClientOption{option.WithAPIKey(e.APIKey)}, e.opts...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.SetMaxOutputTokens(e.MaxTokens)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", upstreamError(err)
	}
	return firstText(resp), nil
}

// upstreamError достаёт текст ошибки провайдера и для REST, и для gRPC транспорта.
func upstreamError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return llm.NewUpstreamError("gemini", gerr.Code, gerr.Message, err)
	}
	var aerr *apierror.APIError
	if errors.As(err, &aerr) {
		msg := ""
		if s := aerr.GRPCStatus(); s != nil {
			msg = s.Message()
		}
		return llm.NewUpstreamError("gemini", aerr.HTTPCode(), msg, err)
	}
	return fmt.Errorf("gemini: %w", err)
}

// firstText склеивает текстовые части первого кандидата.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
