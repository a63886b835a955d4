package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Engine один вызов модели: промпт на вход, склеенный текст ответа на выход.
type Engine interface {
	Name() string
	GetModel() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// UpstreamError провайдер ответил не-2xx. Message то, что он сам написал
// в error.message, либо "API error".
type UpstreamError struct {
	Engine     string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string { return e.Message }

func (e *UpstreamError) Unwrap() error { return e.Err }

// DefaultUpstreamMessage когда провайдер не прислал текста ошибки.
const DefaultUpstreamMessage = "API error"

// NewUpstreamError подставляет DefaultUpstreamMessage вместо пустого сообщения.
func NewUpstreamError(engine string, status int, msg string, err error) *UpstreamError {
	if strings.TrimSpace(msg) == "" {
		msg = DefaultUpstreamMessage
	}
	return &UpstreamError{Engine: engine, StatusCode: status, Message: msg, Err: err}
}

// Engines реестр движков по имени; пустое имя даёт движок по умолчанию.
type Engines struct {
	def string
	m   map[string]Engine
}

func NewEngines(def string, engines ...Engine) *Engines {
	e := &Engines{def: def, m: make(map[string]Engine, len(engines))}
	for _, eng := range engines {
		e.m[eng.Name()] = eng
	}
	return e
}

func (e *Engines) GetEngine(llmName string) (Engine, error) {
	name := strings.ToLower(strings.TrimSpace(llmName))
	if name == "" {
		name = e.def
	}
	switch name {
	case "claude":
		name = "anthropic"
	case "google":
		name = "gemini"
	}
	if eng, ok := e.m[name]; ok {
		return eng, nil
	}
	return nil, fmt.Errorf("unknown llm_name: %s", llmName)
}

// Names зарегистрированные движки, для логов на старте.
func (e *Engines) Names() []string {
	out := make([]string, 0, len(e.m))
	for n := range e.m {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
