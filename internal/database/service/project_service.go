package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/identity"
)

// ProjectService defines the interface for project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, caller *identity.Identity, input CreateProjectInput) (*models.Project, error)
	GetProjects(ctx context.Context, caller *identity.Identity) ([]models.Project, error)
}

// CreateProjectInput carries the fields of a new project
type CreateProjectInput struct {
	Name        string
	GithubURL   string
	GithubToken *string
}

// TokenSealer encrypts access tokens before they reach storage
type TokenSealer interface {
	Seal(plaintext []byte) ([]byte, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	provider    identity.Provider
	sealer      TokenSealer
	logger      *slog.Logger
}

// NewProjectService creates a new project service instance
func NewProjectService(
	projectRepo repository.ProjectRepository,
	provider identity.Provider,
	sealer TokenSealer,
	logger *slog.Logger,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		provider:    provider,
		sealer:      sealer,
		logger:      logger,
	}
}

// CreateProject links a new project to the caller. The caller's email comes from a live
// provider lookup and must match an already-synced user. Calling it twice creates two projects.
func (s *projectService) CreateProject(ctx context.Context, caller *identity.Identity, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	githubURL := strings.TrimSpace(input.GithubURL)
	if name == "" || githubURL == "" {
		return nil, ErrInvalidProject
	}

	profile, err := s.provider.GetUser(ctx, caller.UserID)
	if err != nil {
		s.logger.Error("❌ [ProjectService] Identity lookup failed", "user_id", caller.UserID, "error", err)
		return nil, fmt.Errorf("failed to look up caller: %w", err)
	}

	email, ok := profile.PrimaryEmail()
	if !ok {
		s.logger.Warn("⚠️ [ProjectService] Caller has no email", "user_id", caller.UserID)
		return nil, ErrEmailNotFound
	}

	project := &models.Project{
		Name:      name,
		GithubURL: githubURL,
	}

	if input.GithubToken != nil && *input.GithubToken != "" {
		sealed, err := s.sealer.Seal([]byte(*input.GithubToken))
		if err != nil {
			s.logger.Error("❌ [ProjectService] Failed to encrypt access token", "error", err)
			return nil, err
		}
		project.GithubToken = sealed
	}

	if err := s.projectRepo.CreateWithMembership(ctx, project, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [ProjectService] No local user for caller", "email", email)
			return nil, err
		}
		s.logger.Error("❌ [ProjectService] Failed to create project", "email", email, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [ProjectService] Project created",
		"project_id", project.ID,
		"email", email,
		"has_token", project.HasAccessToken(),
	)
	return project, nil
}

// GetProjects lists the caller's active projects. A caller with no memberships, or with no
// email at all, gets an empty slice.
func (s *projectService) GetProjects(ctx context.Context, caller *identity.Identity) ([]models.Project, error) {
	email := strings.TrimSpace(caller.Email)
	if email == "" {
		profile, err := s.provider.GetUser(ctx, caller.UserID)
		if err != nil {
			s.logger.Error("❌ [ProjectService] Identity lookup failed", "user_id", caller.UserID, "error", err)
			return nil, fmt.Errorf("failed to look up caller: %w", err)
		}

		var ok bool
		if email, ok = profile.PrimaryEmail(); !ok {
			return []models.Project{}, nil
		}
	}

	projects, err := s.projectRepo.FindByMemberEmail(ctx, email)
	if err != nil {
		s.logger.Error("❌ [ProjectService] Failed to list projects", "email", email, "error", err)
		return nil, err
	}

	s.logger.Debug("📂 [ProjectService] Listed projects", "email", email, "count", len(projects))
	return projects, nil
}

// Service errors
var (
	ErrEmailNotFound  = errors.New("user email not found")
	ErrInvalidProject = errors.New("project name and repository URL are required")
)
