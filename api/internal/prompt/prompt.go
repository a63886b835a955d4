package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"perfume-proxy/api/internal/types"
)

//go:embed search.prompt.txt
var defaultSearchTemplate string

// Builder собирает промпт поиска цен из шаблона.
type Builder struct {
	tmpl *template.Template
}

type searchData struct {
	Perfume  string
	SiteList string
}

// New разбирает шаблон; ожидаются поля {{.Perfume}} и {{.SiteList}}.
func New(text string) (*Builder, error) {
	t, err := template.New("search").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &Builder{tmpl: t}, nil
}

// Default встроенный шаблон.
func Default() *Builder {
	b, err := New(defaultSearchTemplate)
	if err != nil {
		panic(err)
	}
	return b
}

// Load берёт шаблон из файла path, а если path пуст, встроенный.
func Load(path string) (*Builder, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, fmt.Errorf("prompt template %s is empty", path)
	}
	return New(string(b))
}

// SiteList одна строка "- name (url)" на каждый активный магазин.
func SiteList(sites []types.Site) string {
	lines := make([]string, 0, len(sites))
	for _, s := range sites {
		if !s.Active {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s (%s)", s.Name, s.URL))
	}
	return strings.Join(lines, "\n")
}

// Build промпт для запроса; детерминирован при одинаковом входе.
func (b *Builder) Build(req types.SearchRequest) (string, error) {
	var sb strings.Builder
	err := b.tmpl.Execute(&sb, searchData{
		Perfume:  req.Perfume,
		SiteList: SiteList(req.ActiveSites()),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}
