package input

import (
	"context"

	"vkeventsbot/internal/domain"
	"vkeventsbot/internal/domain/entities"
)

type UserUseCase interface {
	SaveProfile(ctx context.Context, user *entities.User) error
	GetByVKID(ctx context.Context, vkUserID int64) (*entities.User, error)
	ListActive(ctx context.Context) ([]entities.User, error)
	Stats(ctx context.Context) (domain.UserStats, error)
}
