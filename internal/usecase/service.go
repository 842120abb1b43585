package usecase

import (
	"identity-service/internal/data/repository"
	"identity-service/internal/events"
	"identity-service/pkg/utils"

	"go.uber.org/zap"
)

// Service groups all usecases for wiring
type Service struct {
	Auth AuthService
	User UserService
}

func NewService(repo *repository.Repository, publisher events.Publisher, config *utils.Config, logger *zap.Logger) *Service {
	return &Service{
		Auth: NewAuthService(repo, publisher, config, logger),
		User: NewUserService(repo.User, logger),
	}
}
