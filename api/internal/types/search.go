package types

import "errors"

// ErrMissingParams отдаётся клиенту как есть, поэтому текст на испанском.
var ErrMissingParams = errors.New("Faltan parámetros: perfume y sites son requeridos")

// Site магазин, в котором просим модель поискать цену.
type Site struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// SearchRequest тело POST /api/search.
type SearchRequest struct {
	LLMName string `json:"llm_name,omitempty"` // "" -> движок по умолчанию
	Perfume string `json:"perfume"`
	// nil, если поле не пришло или пришёл null; пустой массив допустим.
	Sites []Site `json:"sites"`
}

// Validate пустая строка и отсутствие поля равнозначны; пробелы считаются значением.
func (req *SearchRequest) Validate() error {
	if req.Perfume == "" || req.Sites == nil {
		return ErrMissingParams
	}
	return nil
}

// ActiveSites только включённые магазины, в исходном порядке.
func (req *SearchRequest) ActiveSites() []Site {
	out := make([]Site, 0, len(req.Sites))
	for _, s := range req.Sites {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}
