package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"BassTab/cache"
	"BassTab/config"
	"BassTab/logger"
	"BassTab/model"
	"BassTab/repository"

	"github.com/gorilla/mux"
)

// APIHandler 处理所有API请求
type APIHandler struct {
	pairRepo  repository.PairRepository
	indexRepo repository.IndexRepository
	cfg       *config.Config
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	pairRepo repository.PairRepository,
	indexRepo repository.IndexRepository,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		pairRepo:  pairRepo,
		indexRepo: indexRepo,
		cfg:       cfg,
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{
		"error":     message,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HealthHandler 健康检查
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK

	count, err := h.indexRepo.CountPairs()
	if err != nil {
		logger.Error("health check failed", logger.ErrorField(err))
		status = "error"
		code = http.StatusServiceUnavailable
	}

	respondWithJSON(w, code, map[string]interface{}{
		"status":    status,
		"version":   h.cfg.APIVersion,
		"pairs":     count,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// ListPairsHandler 返回全部配对的 slug 列表
func (h *APIHandler) ListPairsHandler(w http.ResponseWriter, r *http.Request) {
	slugs, err := h.indexRepo.ListSlugs()
	if err != nil {
		logger.Error("failed to list pairs", logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "failed to list pairs")
		return
	}
	respondWithJSON(w, http.StatusOK, slugs)
}

// resolvePair is the ContentResolver: cache-aside lookup of a validated
// payload by slug. Returns (nil, nil) when the slug is unknown.
func (h *APIHandler) resolvePair(ctx context.Context, slug string) (*model.PagePayload, error) {
	payload, err := cache.GetPair(ctx, slug)
	if err != nil {
		// 缓存故障只降级，不影响请求
		logger.Warn("pair cache unavailable",
			logger.String("slug", slug), logger.ErrorField(err))
	}
	if payload != nil {
		return payload, nil
	}

	pair, err := h.pairRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, nil
	}

	payload = pair.ToPayload()
	// Data integrity gate: never hand out a payload the model layer would
	// reject at construction time.
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	if err := cache.SetPair(ctx, slug, payload); err != nil {
		logger.Warn("failed to cache pair",
			logger.String("slug", slug), logger.ErrorField(err))
	}
	return payload, nil
}

// GetPairHandler 根据 slug 返回完整页面载荷
func (h *APIHandler) GetPairHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	slug, err := model.SanitizeSlug(vars["slug"])
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	payload, err := h.resolvePair(r.Context(), slug)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			logger.Error("stored pair failed validation",
				logger.String("slug", slug), logger.ErrorField(err))
			respondWithError(w, http.StatusInternalServerError, "internal data validation error")
			return
		}
		logger.Error("failed to resolve pair",
			logger.String("slug", slug), logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "failed to resolve pair")
		return
	}
	if payload == nil {
		respondWithError(w, http.StatusNotFound, "track pair not found: "+slug)
		return
	}

	respondWithJSON(w, http.StatusOK, payload)
}
