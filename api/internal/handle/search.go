package handle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"perfume-proxy/api/internal/llm"
	"perfume-proxy/api/internal/logger"
	"perfume-proxy/api/internal/metrics"
	"perfume-proxy/api/internal/types"
	"perfume-proxy/api/internal/util"
)

const maxBodyBytes = 4 << 20

// Search POST /api/search: один промпт, один вызов модели, JSON из ответа как есть.
func (h *Handle) Search(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	log := logger.FromContext(r.Context(), h.log)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		h.metrics.Lookup(metrics.OutcomeMethodNotAllowed)
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	var req types.SearchRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.metrics.Lookup(metrics.OutcomeBadRequest)
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		h.metrics.Lookup(metrics.OutcomeBadRequest)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	engine, err := h.engs.GetEngine(req.LLMName)
	if err != nil {
		h.metrics.Lookup(metrics.OutcomeBadRequest)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.prompts.Build(req)
	if err != nil {
		h.metrics.Lookup(metrics.OutcomeInternalError)
		h.fail(w, log, "build prompt", err)
		return
	}

	log = log.With(
		logger.String("engine", engine.Name()),
		logger.String("model", engine.GetModel()),
		logger.String("perfume", req.Perfume),
		logger.Int("sites", len(req.ActiveSites())),
	)

	// Ушедший клиент не обрывает уже отправленный запрос к модели.
	ctx := context.WithoutCancel(r.Context())
	started := time.Now()
	reply, err := engine.Complete(ctx, p)
	h.metrics.ObserveUpstream(engine.Name(), started)
	if err != nil {
		h.metrics.Lookup(metrics.OutcomeUpstreamError)
		var ue *llm.UpstreamError
		if errors.As(err, &ue) {
			log.Warn("upstream error", logger.Int("status", ue.StatusCode), logger.Error(err))
			writeError(w, http.StatusInternalServerError, ue.Message)
			return
		}
		h.fail(w, log, "upstream call", err)
		return
	}

	ex, err := util.ExtractJSON(reply)
	if err != nil {
		h.metrics.Lookup(metrics.OutcomeParseError)
		h.fail(w, log.With(logger.Int("reply_len", len(reply))), "parse model reply", err)
		return
	}
	if ex.Repaired() {
		h.metrics.JSONRepairs.Inc()
		log.Info("model reply needed repair")
	}

	h.metrics.Lookup(metrics.OutcomeOK)
	log.Debug("lookup ok", logger.Duration("took", time.Since(started)))
	writeJSON(w, http.StatusOK, ex.Value)
}

// fail логирует и отвечает 500 с текстом ошибки.
func (h *Handle) fail(w http.ResponseWriter, log logger.Logger, stage string, err error) {
	log.Error("lookup failed", logger.String("stage", stage), logger.Error(err))
	writeError(w, http.StatusInternalServerError, errMessage(err))
}
