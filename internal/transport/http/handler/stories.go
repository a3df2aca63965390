package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/scrybe/scrybe-backend/internal/application/cover"
	"github.com/scrybe/scrybe-backend/internal/application/story"
	"github.com/scrybe/scrybe-backend/internal/domain"
	"github.com/scrybe/scrybe-backend/internal/pkg/validate"
	"github.com/scrybe/scrybe-backend/internal/transport/http/middleware"
)

// StoryHandler handles story CRUD, continuation, and cover generation.
type StoryHandler struct {
	stories story.Service
	covers  cover.Service
}

func NewStoryHandler(stories story.Service, covers cover.Service) *StoryHandler {
	return &StoryHandler{stories: stories, covers: covers}
}

func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.StoryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return
	}
	s, err := h.stories.Create(r.Context(), u.ID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	stories, err := h.stories.List(r.Context(), u.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stories)
}

func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	storyID, err := parseStoryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	s, err := h.stories.Get(r.Context(), u.ID, storyID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Continue classifies the instruction into a continuation action. The service
// degrades to a CHAT fallback internally, so this endpoint only fails on bad
// input.
func (h *StoryHandler) Continue(w http.ResponseWriter, r *http.Request) {
	var req domain.ContinuationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stories.Continue(r.Context(), req))
}

func (h *StoryHandler) GenerateCover(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	storyID, err := parseStoryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	s, err := h.covers.Generate(r.Context(), u.ID, storyID, requestBaseURL(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func parseStoryID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// requestBaseURL reconstructs the externally visible origin so cover URLs
// point back at this deployment.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
