package handler

import (
	"net/http"

	"github.com/scrybe/scrybe-backend/internal/config"
)

// HealthHandler reports service liveness and which provider credentials are
// configured. No auth required.
type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler { return &HealthHandler{cfg: cfg} }

type healthResponse struct {
	Status       string `json:"status"`
	HasGeminiKey bool   `json:"has_gemini_key"`
	HasHFKey     bool   `json:"has_hf_key"`
	GeminiModel  string `json:"gemini_model"`
	HFModel      string `json:"hf_model"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		HasGeminiKey: h.cfg.HasGeminiKey(),
		HasHFKey:     h.cfg.HasHFKey(),
		GeminiModel:  h.cfg.GeminiModel,
		HFModel:      h.cfg.HFModel(),
	})
}
