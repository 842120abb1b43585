package usecase

import (
	"context"

	"identity-service/internal/apperr"
	"identity-service/internal/data/repository"
	"identity-service/internal/dto/request"
	"identity-service/internal/dto/response"

	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *request.UserUpdateRequest) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

func (us *userService) GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to get profile", zap.Error(err), zap.Int64("user_id", userID))
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateProfile applies the non-nil fields of req to the user's profile.
// Email, password, and verification state are not reachable here.
func (us *userService) UpdateProfile(ctx context.Context, userID int64, req *request.UserUpdateRequest) (*response.UserResponse, error) {
	user, err := us.userRepo.Update(ctx, userID, req)
	if err != nil {
		us.log.Error("Failed to update profile", zap.Error(err), zap.Int64("user_id", userID))
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}

	us.log.Info("Profile updated", zap.Int64("user_id", userID))

	resp := response.UserToResponse(user)
	return &resp, nil
}
