package service

import (
	"context"

	"linknet/internal/models"
	"linknet/internal/repository"
)

// UserService provides user directory business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns the full profile of the given user.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// GetPublicProfile returns the display summary for a username.
func (s *UserService) GetPublicProfile(ctx context.Context, username string) (*models.UserSummary, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundMessageError("User not found")
	}
	summary := user.Summary()
	return &summary, nil
}
