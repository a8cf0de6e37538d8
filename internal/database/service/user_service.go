package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/identity"
)

// UserService defines the interface for user directory business logic
type UserService interface {
	// SyncUser mirrors the provider profile into the users table, keyed by email
	SyncUser(ctx context.Context, profile *identity.Profile) (*models.User, error)
	// SyncIdentity fetches the live profile for a signed-in caller and syncs it
	SyncIdentity(ctx context.Context, caller *identity.Identity) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	provider identity.Provider
	logger   *slog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repository.UserRepository, provider identity.Provider, logger *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		provider: provider,
		logger:   logger,
	}
}

func (s *userService) SyncIdentity(ctx context.Context, caller *identity.Identity) (*models.User, error) {
	profile, err := s.provider.GetUser(ctx, caller.UserID)
	if err != nil {
		s.logger.Error("❌ [UserService] Identity lookup failed", "user_id", caller.UserID, "error", err)
		return nil, err
	}
	return s.SyncUser(ctx, profile)
}

func (s *userService) SyncUser(ctx context.Context, profile *identity.Profile) (*models.User, error) {
	email, ok := profile.PrimaryEmail()
	if !ok {
		s.logger.Warn("⚠️ [UserService] Identity has no email, skipping sync")
		return nil, ErrIdentityIncomplete
	}

	s.logger.Info("🔄 [UserService] Syncing user", "email", email)

	user, err := s.userRepo.UpsertByEmail(ctx, &models.User{
		Email:     email,
		FirstName: profile.FirstNameOrDefault(),
		LastName:  profile.LastNameOrDefault(),
		ImageURL:  profile.ImageURLOrDefault(),
	})
	if err != nil {
		s.logger.Error("❌ [UserService] Failed to upsert user", "email", email, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [UserService] User synced", "user_id", user.ID, "email", email)
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.FindByEmail(ctx, email)
}

// Service errors
var (
	ErrIdentityIncomplete = errors.New("identity has no email address")
)
