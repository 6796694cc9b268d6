package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/skycastapp/skycast_backend/internal/apperrors"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
	portsrepo "github.com/skycastapp/skycast_backend/internal/core/ports/repositories"
	portssvc "github.com/skycastapp/skycast_backend/internal/core/ports/services"
)

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, email)
}

func (s *userService) CreateUserWithPassword(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
	return s.userRepo.CreateUserWithPassword(ctx, email, passwordHash, name)
}

// CreateOAuthUser resolves a verified Google identity to a local account.
// Match order: Google subject ID, then email. An email-matched account that
// has no Google ID yet gets the ID linked to it; the account keeps its
// password hash, so password login keeps working after the link.
func (s *userService) CreateOAuthUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	user, err := s.userRepo.FindUserByGoogleID(ctx, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by google ID: %w", err)
	}

	user, err = s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		if user.GoogleID == nil {
			if err := s.userRepo.LinkGoogleID(ctx, user.UserID, info.ID, info.Picture); err != nil {
				return nil, fmt.Errorf("failed to link google ID: %w", err)
			}
		}
		return s.userRepo.FindUserByID(ctx, user.UserID)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	return s.userRepo.CreateGoogleUser(ctx, info.Email, info.ID, info.Name, info.Picture)
}
