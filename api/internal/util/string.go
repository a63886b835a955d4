package util

import (
	"regexp"
	"strings"
)

// Тег снимаем только json (в любом регистре); прочие буквы после ``` остаются,
// иначе портятся строки, где забор встречается внутри значения.
var (
	jsonFenceRe = regexp.MustCompile("(?i)```json\\s*")
	bareFenceRe = regexp.MustCompile("```\\s*")
)

// StripCodeFences убирает все markdown-заборы из ответа модели, не только по краям:
// модели любят дописывать пояснения до и после блока.
func StripCodeFences(s string) string {
	s = jsonFenceRe.ReplaceAllString(s, "")
	s = bareFenceRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ObjectSpan режет строку от первой '{' до последней '}' включительно.
// Если пары нет, строка возвращается как есть.
func ObjectSpan(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
