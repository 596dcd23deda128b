package application

import (
	"context"
	"fmt"

	"vkeventsbot/internal/domain"
	"vkeventsbot/internal/domain/entities"
	"vkeventsbot/internal/ports/output"
)

type UserService struct {
	users output.UserRepository
	regs  output.RegistrationRepository
}

func NewUserService(users output.UserRepository, regs output.RegistrationRepository) *UserService {
	return &UserService{users: users, regs: regs}
}

func (s *UserService) SaveProfile(ctx context.Context, user *entities.User) error {
	user.IsActive = true
	return s.users.Upsert(ctx, user)
}

func (s *UserService) GetByVKID(ctx context.Context, vkUserID int64) (*entities.User, error) {
	return s.users.FindByVKID(ctx, vkUserID)
}

func (s *UserService) ListActive(ctx context.Context) ([]entities.User, error) {
	return s.users.ListActive(ctx)
}

func (s *UserService) Stats(ctx context.Context) (domain.UserStats, error) {
	total, active, err := s.users.Count(ctx)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("count users: %w", err)
	}
	registrations, err := s.regs.CountAll(ctx)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("count registrations: %w", err)
	}
	return domain.UserStats{
		TotalUsers:         total,
		ActiveUsers:        active,
		TotalRegistrations: registrations,
	}, nil
}
