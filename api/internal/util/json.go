package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Stage говорит, на каком шаге удалось разобрать ответ.
type Stage string

const (
	StageStrict   Stage = "strict"
	StageRepaired Stage = "repaired"
)

// ErrEmptyReply модель вернула пустой текст.
var ErrEmptyReply = errors.New("empty model reply")

// Extraction результат разбора ответа модели.
type Extraction struct {
	// Value валидный JSON в исходном порядке ключей.
	Value json.RawMessage
	Stage Stage
}

// Repaired true, если понадобился второй проход.
func (e Extraction) Repaired() bool { return e.Stage == StageRepaired }

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	singleQuotedRe  = regexp.MustCompile(`:\s*'([^']*)'`)
)

// Salvage снимает заборы и оставляет только объект от первой '{' до последней '}'.
func Salvage(text string) string {
	return ObjectSpan(StripCodeFences(text))
}

// Repair правит типичные огрехи модели: висячие запятые перед '}'/']'
// и строковые значения в одинарных кавычках.
func Repair(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	return singleQuotedRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := singleQuotedRe.FindStringSubmatch(m)
		return `:"` + strings.ReplaceAll(sub[1], `"`, `\"`) + `"`
	})
}

// ExtractJSON достаёт JSON из свободного текста модели в два прохода:
// строгий разбор, затем один разбор после Repair. Дальше не пытаемся.
func ExtractJSON(text string) (Extraction, error) {
	clean := Salvage(text)
	if clean == "" {
		return Extraction{}, ErrEmptyReply
	}

	var v any
	err := json.Unmarshal([]byte(clean), &v)
	if err == nil {
		return Extraction{Value: json.RawMessage(clean), Stage: StageStrict}, nil
	}

	fixed := Repair(clean)
	if err := json.Unmarshal([]byte(fixed), &v); err != nil {
		return Extraction{}, fmt.Errorf("bad JSON in model reply: %w", err)
	}
	return Extraction{Value: json.RawMessage(fixed), Stage: StageRepaired}, nil
}
