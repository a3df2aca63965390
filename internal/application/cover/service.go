package cover

import (
	"context"
	"fmt"
	"strings"

	"github.com/scrybe/scrybe-backend/internal/domain"
)

// summaryInputLimit bounds how much story text is fed to the summarizer, in
// characters, to respect provider input limits.
const summaryInputLimit = 6000

type Service interface {
	// Generate runs the full cover pipeline for the caller's story and returns
	// the story with its refreshed cover URL. The story record and cover file
	// are only touched after the image provider has succeeded.
	Generate(ctx context.Context, userID, storyID int64, baseURL string) (*domain.Story, error)
}

type storyStore interface {
	Get(ctx context.Context, storyID int64) (*domain.Story, error)
	SetCoverURL(ctx context.Context, storyID int64, url string) error
}

type textGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type imageGenerator interface {
	Configured() bool
	GenerateImage(ctx context.Context, prompt string) (data []byte, contentType string, err error)
}

type coverStore interface {
	Save(ctx context.Context, filename string, data []byte, contentType, baseURL string) (string, error)
}

type service struct {
	stories storyStore
	text    textGenerator
	images  imageGenerator
	store   coverStore
}

type ServiceDeps struct {
	StoryRepo      storyStore
	TextGenerator  textGenerator
	ImageGenerator imageGenerator
	CoverStore     coverStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		stories: deps.StoryRepo,
		text:    deps.TextGenerator,
		images:  deps.ImageGenerator,
		store:   deps.CoverStore,
	}
}

func (s *service) Generate(ctx context.Context, userID, storyID int64, baseURL string) (*domain.Story, error) {
	if !s.images.Configured() {
		return nil, fmt.Errorf("image provider credential not configured: %w", domain.ErrConfig)
	}

	story, err := s.stories.Get(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.UserID == nil || *story.UserID != userID {
		return nil, fmt.Errorf("story not found: %w", domain.ErrNotFound)
	}
	if len(story.Chapters) == 0 {
		return nil, fmt.Errorf("story has no chapters to summarize for cover generation: %w", domain.ErrBadRequest)
	}

	summary, err := s.summarize(ctx, story)
	if err != nil {
		return nil, err
	}

	imagePrompt := fmt.Sprintf("A professional book cover for a %s novel titled '%s'. %s",
		story.Genre, story.Title, summary)

	data, contentType, err := s.images.GenerateImage(ctx, imagePrompt)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("cover_%d.png", story.ID)
	url, err := s.store.Save(ctx, filename, data, contentType, baseURL)
	if err != nil {
		return nil, err
	}

	if err := s.stories.SetCoverURL(ctx, story.ID, url); err != nil {
		return nil, err
	}
	story.CoverImageURL = &url
	return story, nil
}

func (s *service) summarize(ctx context.Context, story *domain.Story) (string, error) {
	contents := make([]string, 0, len(story.Chapters))
	for _, ch := range story.Chapters {
		contents = append(contents, ch.Content)
	}
	fullText := strings.Join(contents, "\n\n")
	if runes := []rune(fullText); len(runes) > summaryInputLimit {
		fullText = string(runes[:summaryInputLimit])
	}

	prompt := "Summarize the following story in ONE vivid, visually descriptive sentence optimized for an AI image generator. " +
		"Avoid character names unless essential; focus on mood, setting, and standout imagery. Story: " + fullText

	summary, err := s.text.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("story summarization failed: %w", domain.ErrUpstream)
	}
	return strings.ReplaceAll(strings.TrimSpace(summary), "```", ""), nil
}
