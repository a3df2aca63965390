package http

import (
	"context"

	"github.com/scrybe/scrybe-backend/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	MarkVerified(ctx context.Context, userID int64) error
	UpdateAIName(ctx context.Context, userID int64, aiName string) error
}

// StoryRepository is the minimal interface the router requires from a story store.
type StoryRepository interface {
	Create(ctx context.Context, s *domain.Story) error
	Get(ctx context.Context, storyID int64) (*domain.Story, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Story, error)
	SetCoverURL(ctx context.Context, storyID int64, url string) error
	StatsByUser(ctx context.Context, userID int64) (*domain.ProfileStats, error)
}

// TextGenerator produces free-form text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator produces raw image bytes from a prompt.
type ImageGenerator interface {
	Configured() bool
	GenerateImage(ctx context.Context, prompt string) (data []byte, contentType string, err error)
}

// CoverStore persists a generated cover and returns its public URL.
type CoverStore interface {
	Save(ctx context.Context, filename string, data []byte, contentType, baseURL string) (string, error)
}
