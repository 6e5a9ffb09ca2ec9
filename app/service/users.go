package service

import (
	"context"
	"io"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

type avatarRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateAvatar(ctx context.Context, email, url string) error
}

// UserService covers the profile operations on the authenticated user.
type UserService struct {
	userRepo avatarRepository
	cache    identityCache
	uploader AvatarUploader
}

func NewUserService(userRepo avatarRepository, cache identityCache, uploader AvatarUploader) *UserService {
	return &UserService{
		userRepo: userRepo,
		cache:    cache,
		uploader: uploader,
	}
}

// UpdateAvatar uploads the image, persists the new URL, and overwrites the
// cache entry so the change is visible immediately.
func (s *UserService) UpdateAvatar(ctx context.Context, user *entity.User, file io.Reader) (*entity.User, error) {
	url, err := s.uploader.Upload(ctx, file, user.Email)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateAvatar(ctx, user.Email, url); err != nil {
		return nil, err
	}

	updated, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}

	s.cache.Set(ctx, updated)
	return updated, nil
}
