package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/scrybe/scrybe-backend/internal/domain"
	"github.com/scrybe/scrybe-backend/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStorySvc struct{ mock.Mock }

func (m *mockStorySvc) Create(ctx context.Context, userID int64, req domain.StoryCreateRequest) (*domain.Story, error) {
	args := m.Called(ctx, userID, req)
	if s, _ := args.Get(0).(*domain.Story); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStorySvc) List(ctx context.Context, userID int64) ([]domain.Story, error) {
	args := m.Called(ctx, userID)
	if s, _ := args.Get(0).([]domain.Story); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStorySvc) Get(ctx context.Context, userID, storyID int64) (*domain.Story, error) {
	args := m.Called(ctx, userID, storyID)
	if s, _ := args.Get(0).(*domain.Story); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStorySvc) Continue(ctx context.Context, req domain.ContinuationRequest) *domain.ContinuationResponse {
	return m.Called(ctx, req).Get(0).(*domain.ContinuationResponse)
}

type mockCoverSvc struct{ mock.Mock }

func (m *mockCoverSvc) Generate(ctx context.Context, userID, storyID int64, baseURL string) (*domain.Story, error) {
	args := m.Called(ctx, userID, storyID, baseURL)
	if s, _ := args.Get(0).(*domain.Story); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func authedReq(r *http.Request, u *domain.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), u))
}

func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func alice() *domain.User { return &domain.User{ID: 42, Username: "alice"} }

// --- Create ---

func TestStoryCreate_NoUser(t *testing.T) {
	h := NewStoryHandler(&mockStorySvc{}, &mockCoverSvc{})
	r := httptest.NewRequest(http.MethodPost, "/api/stories", nil)
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStoryCreate_ValidationFailure(t *testing.T) {
	svc := &mockStorySvc{}
	h := NewStoryHandler(svc, &mockCoverSvc{})
	body, _ := json.Marshal(domain.StoryCreateRequest{Title: "only a title"})
	r := authedReq(httptest.NewRequest(http.MethodPost, "/api/stories", bytes.NewReader(body)), alice())
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoryCreate_HappyPath(t *testing.T) {
	svc := &mockStorySvc{}
	svc.On("Create", mock.Anything, int64(42), mock.Anything).Return(&domain.Story{
		ID: 5, Title: "The Hollow Crown", Genre: "Fantasy", AIName: "Orion",
	}, nil)
	h := NewStoryHandler(svc, &mockCoverSvc{})
	body, _ := json.Marshal(domain.StoryCreateRequest{
		Title: "The Hollow Crown", Genre: "Fantasy", AIName: "Orion",
		Chapters: []domain.ChapterCreateRequest{{ChapterNumber: 1, Content: "Once."}},
	})
	r := authedReq(httptest.NewRequest(http.MethodPost, "/api/stories", bytes.NewReader(body)), alice())
	rr := httptest.NewRecorder()
	h.Create(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp domain.Story
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, int64(5), resp.ID)
}

// --- Get ---

func TestStoryGet_BadID(t *testing.T) {
	h := NewStoryHandler(&mockStorySvc{}, &mockCoverSvc{})
	r := authedReq(withChiID(httptest.NewRequest(http.MethodGet, "/api/stories/abc", nil), "abc"), alice())
	rr := httptest.NewRecorder()
	h.Get(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStoryGet_NotFound(t *testing.T) {
	svc := &mockStorySvc{}
	svc.On("Get", mock.Anything, int64(42), int64(5)).Return(nil, domain.ErrNotFound)
	h := NewStoryHandler(svc, &mockCoverSvc{})
	r := authedReq(withChiID(httptest.NewRequest(http.MethodGet, "/api/stories/5", nil), "5"), alice())
	rr := httptest.NewRecorder()
	h.Get(rr, r)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- Continue ---

func TestContinue_HappyPath(t *testing.T) {
	svc := &mockStorySvc{}
	svc.On("Continue", mock.Anything, mock.Anything).Return(&domain.ContinuationResponse{
		Action: domain.ActionAppend, StoryText: "The rain fell.", ChatResponse: "Done!",
	})
	h := NewStoryHandler(svc, &mockCoverSvc{})
	body, _ := json.Marshal(domain.ContinuationRequest{UserInput: "keep going"})
	r := httptest.NewRequest(http.MethodPost, "/api/continue_story", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Continue(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp domain.ContinuationResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, domain.ActionAppend, resp.Action)
}

func TestContinue_MissingInput(t *testing.T) {
	svc := &mockStorySvc{}
	h := NewStoryHandler(svc, &mockCoverSvc{})
	body, _ := json.Marshal(domain.ContinuationRequest{})
	r := httptest.NewRequest(http.MethodPost, "/api/continue_story", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Continue(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Continue", mock.Anything, mock.Anything)
}

func TestContinue_OmitsChapterTitleWhenNil(t *testing.T) {
	svc := &mockStorySvc{}
	svc.On("Continue", mock.Anything, mock.Anything).Return(&domain.ContinuationResponse{
		Action: domain.ActionChat, ChatResponse: "Hi!",
	})
	h := NewStoryHandler(svc, &mockCoverSvc{})
	body, _ := json.Marshal(domain.ContinuationRequest{UserInput: "hello"})
	r := httptest.NewRequest(http.MethodPost, "/api/continue_story", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Continue(rr, r)

	var raw map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	_, present := raw["new_chapter_title"]
	assert.False(t, present)
}

// --- GenerateCover ---

func TestGenerateCover_BaseURLFromForwardedProto(t *testing.T) {
	cs := &mockCoverSvc{}
	url := "https://scrybe.example.com/covers/cover_5.png"
	cs.On("Generate", mock.Anything, int64(42), int64(5), "https://scrybe.example.com").
		Return(&domain.Story{ID: 5, CoverImageURL: &url}, nil)
	h := NewStoryHandler(&mockStorySvc{}, cs)

	r := httptest.NewRequest(http.MethodPost, "/api/stories/5/generate_cover", nil)
	r.Host = "scrybe.example.com"
	r.Header.Set("X-Forwarded-Proto", "https")
	r = authedReq(withChiID(r, "5"), alice())
	rr := httptest.NewRecorder()
	h.GenerateCover(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	cs.AssertExpectations(t)
}

func TestGenerateCover_UpstreamTimeout(t *testing.T) {
	cs := &mockCoverSvc{}
	cs.On("Generate", mock.Anything, int64(42), int64(5), mock.Anything).
		Return(nil, domain.ErrUpstreamTimeout)
	h := NewStoryHandler(&mockStorySvc{}, cs)

	r := authedReq(withChiID(httptest.NewRequest(http.MethodPost, "/api/stories/5/generate_cover", nil), "5"), alice())
	rr := httptest.NewRecorder()
	h.GenerateCover(rr, r)

	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
}

func TestGenerateCover_NotConfigured(t *testing.T) {
	cs := &mockCoverSvc{}
	cs.On("Generate", mock.Anything, int64(42), int64(5), mock.Anything).
		Return(nil, domain.ErrConfig)
	h := NewStoryHandler(&mockStorySvc{}, cs)

	r := authedReq(withChiID(httptest.NewRequest(http.MethodPost, "/api/stories/5/generate_cover", nil), "5"), alice())
	rr := httptest.NewRecorder()
	h.GenerateCover(rr, r)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
