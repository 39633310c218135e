package application

import (
	"context"

	"github.com/litblc/account-service/internal/domain"
	"go.uber.org/zap"
)

// ProfileService reads and updates user profiles.
type ProfileService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewProfileService(users domain.UserRepository, log *zap.Logger) *ProfileService {
	return &ProfileService{users: users, log: log}
}

// GetUserByUUID returns the public profile for a user.
func (s *ProfileService) GetUserByUUID(ctx context.Context, uuid string) (*domain.User, error) {
	return s.users.FindByUUID(ctx, uuid)
}

// MyInfo returns the calling user's own profile.
func (s *ProfileService) MyInfo(ctx context.Context, uuid string) (*domain.User, error) {
	return s.users.FindByUUID(ctx, uuid)
}

// UpdateMyInfo updates the calling user's profile fields (name excluded)
// and returns the fresh record.
func (s *ProfileService) UpdateMyInfo(ctx context.Context, uuid string, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.users.FindByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateProfile(ctx, user.ID, update); err != nil {
		return nil, err
	}

	return s.users.FindByUUID(ctx, uuid)
}

// UpdateMyName renames the calling user. Renaming is allowed exactly once;
// the flag flips on the first successful rename.
func (s *ProfileService) UpdateMyName(ctx context.Context, uuid, name string) error {
	user, err := s.users.FindByUUID(ctx, uuid)
	if err != nil {
		return err
	}

	if user.IsRename != domain.RenameAllowed {
		return domain.ErrRenameNotAllowed
	}

	return s.users.UpdateName(ctx, user.ID, name, domain.RenameUsed)
}
