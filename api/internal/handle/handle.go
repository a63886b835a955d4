package handle

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"perfume-proxy/api/internal/llm"
	"perfume-proxy/api/internal/logger"
	"perfume-proxy/api/internal/metrics"
	"perfume-proxy/api/internal/prompt"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgInternal         = "Error interno del servidor"
)

type Handle struct {
	engs    *llm.Engines
	prompts *prompt.Builder
	metrics *metrics.Metrics
	log     logger.Logger
}

func New(engs *llm.Engines, prompts *prompt.Builder, m *metrics.Metrics, log logger.Logger) *Handle {
	return &Handle{
		engs:    engs,
		prompts: prompts,
		metrics: m,
		log:     log,
	}
}

// setCORS на каждый ответ, включая ошибки.
func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// errMessage текст ошибки для клиента; пустой заменяем общим.
func errMessage(err error) string {
	if err == nil || err.Error() == "" {
		return msgInternal
	}
	return err.Error()
}

// Recover последний рубеж: паника в хендлере превращается в 500 с CORS.
func (h *Handle) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.FromContext(r.Context(), h.log).Error("handler panic",
				logger.Any("panic", rec),
				logger.String("stack", string(debug.Stack())),
			)
			h.metrics.Lookup(metrics.OutcomeInternalError)
			setCORS(w)
			writeError(w, http.StatusInternalServerError, msgInternal)
		}()
		next.ServeHTTP(w, r)
	})
}
