package story

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/scrybe/scrybe-backend/internal/domain"
)

// Fallback copy returned when the model's output cannot be used.
const (
	fallbackChatResponse = "I'm having a little trouble thinking right now. Could you rephrase that?"
	defaultChatResponse  = "I seem to be at a loss for words. Could you try again?"
	defaultChapterTitle  = "Untitled Chapter"
)

type Service interface {
	Create(ctx context.Context, userID int64, req domain.StoryCreateRequest) (*domain.Story, error)
	List(ctx context.Context, userID int64) ([]domain.Story, error)
	// Get returns the story with chapters; stories owned by another user are
	// reported as not found.
	Get(ctx context.Context, userID, storyID int64) (*domain.Story, error)
	// Continue classifies the user's instruction into a continuation action.
	// It never fails: provider or parse errors degrade to a CHAT fallback.
	Continue(ctx context.Context, req domain.ContinuationRequest) *domain.ContinuationResponse
}

type storyStore interface {
	Create(ctx context.Context, s *domain.Story) error
	Get(ctx context.Context, storyID int64) (*domain.Story, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Story, error)
}

type textGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type service struct {
	stories storyStore
	text    textGenerator
}

type ServiceDeps struct {
	StoryRepo     storyStore
	TextGenerator textGenerator
}

func NewService(deps ServiceDeps) Service {
	return &service{stories: deps.StoryRepo, text: deps.TextGenerator}
}

func (s *service) Create(ctx context.Context, userID int64, req domain.StoryCreateRequest) (*domain.Story, error) {
	story := &domain.Story{
		Title:    req.Title,
		Genre:    req.Genre,
		AIName:   req.AIName,
		UserID:   &userID,
		Chapters: make([]domain.Chapter, 0, len(req.Chapters)),
	}
	for _, ch := range req.Chapters {
		title := ch.Title
		if title == "" {
			title = defaultChapterTitle
		}
		story.Chapters = append(story.Chapters, domain.Chapter{
			ChapterNumber: ch.ChapterNumber,
			Title:         title,
			Content:       ch.Content,
		})
	}
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]domain.Story, error) {
	return s.stories.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, storyID int64) (*domain.Story, error) {
	story, err := s.stories.Get(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.UserID == nil || *story.UserID != userID {
		return nil, fmt.Errorf("story not found: %w", domain.ErrNotFound)
	}
	return story, nil
}

// modelReply mirrors the JSON contract the prompt demands from the model.
type modelReply struct {
	Action          string  `json:"action"`
	StoryText       string  `json:"story_text"`
	ChatResponse    string  `json:"chat_response"`
	NewChapterTitle *string `json:"new_chapter_title"`
}

func (s *service) Continue(ctx context.Context, req domain.ContinuationRequest) *domain.ContinuationResponse {
	prompt := buildContinuationPrompt(req)

	raw, err := s.text.GenerateContent(ctx, prompt)
	if err != nil {
		slog.Warn("continuation generation failed", "err", err)
		return fallbackResponse()
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &reply); err != nil {
		slog.Warn("continuation reply was not valid JSON", "err", err, "raw", truncate(raw, 200))
		return fallbackResponse()
	}

	resp := &domain.ContinuationResponse{
		Action:       reply.Action,
		StoryText:    reply.StoryText,
		ChatResponse: reply.ChatResponse,
	}
	if resp.Action == "" {
		resp.Action = domain.ActionChat
	}
	if resp.ChatResponse == "" {
		resp.ChatResponse = defaultChatResponse
	}
	// new_chapter_title accompanies CHAPTER only; some model replies set it
	// to null for other actions, so drop it unless it carries a value.
	if resp.Action == domain.ActionChapter && reply.NewChapterTitle != nil && *reply.NewChapterTitle != "" {
		resp.NewChapterTitle = reply.NewChapterTitle
	}
	return resp
}

func fallbackResponse() *domain.ContinuationResponse {
	return &domain.ContinuationResponse{
		Action:       domain.ActionChat,
		StoryText:    "",
		ChatResponse: fallbackChatResponse,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
