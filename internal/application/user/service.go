package user

import (
	"context"

	"github.com/scrybe/scrybe-backend/internal/domain"
)

// Service covers the caller's own profile: reading it, renaming the AI
// persona, and writing-activity stats.
type Service interface {
	UpdateAIName(ctx context.Context, u *domain.User, aiName string) (*domain.UserResponse, error)
	Stats(ctx context.Context, userID int64) (*domain.ProfileStats, error)
}

type userStore interface {
	UpdateAIName(ctx context.Context, userID int64, aiName string) error
}

type statsStore interface {
	StatsByUser(ctx context.Context, userID int64) (*domain.ProfileStats, error)
}

type service struct {
	users userStore
	stats statsStore
}

func NewService(users userStore, stats statsStore) Service {
	return &service{users: users, stats: stats}
}

func (s *service) UpdateAIName(ctx context.Context, u *domain.User, aiName string) (*domain.UserResponse, error) {
	if err := s.users.UpdateAIName(ctx, u.ID, aiName); err != nil {
		return nil, err
	}
	resp := u.ToResponse()
	resp.AIName = &aiName
	return resp, nil
}

func (s *service) Stats(ctx context.Context, userID int64) (*domain.ProfileStats, error) {
	return s.stats.StatsByUser(ctx, userID)
}
