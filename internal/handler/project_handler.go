package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/identity"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/rpc"
)

// ProjectHandler exposes the project procedures
type ProjectHandler struct {
	service service.ProjectService
	logger  *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger,
	}
}

// Request/Response DTOs
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	GithubURL   string  `json:"githubUrl" binding:"required,url"`
	GithubToken *string `json:"githubToken"`
}

type ProjectResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	GithubURL string    `json:"githubUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// Router builds the "project" procedures. Both are protected; createLimit (optional) runs
// inside the authentication gate of createProject only.
func (h *ProjectHandler) Router(cfg *rpc.Config, protected rpc.Builder, createLimit ...rpc.Middleware) *rpc.Router {
	router := cfg.NewRouter()
	router.Handle("createProject", protected.Use(createLimit...).Mutation(rpc.Typed(h.CreateProject)))
	router.Handle("getProjects", protected.Query(rpc.Typed(h.GetProjects)))
	return router
}

// CreateProject handles project.createProject
func (h *ProjectHandler) CreateProject(ctx *rpc.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	project, err := h.service.CreateProject(ctx, ctx.Identity, service.CreateProjectInput{
		Name:        req.Name,
		GithubURL:   req.GithubURL,
		GithubToken: req.GithubToken,
	})
	if err != nil {
		return nil, h.handleServiceError(err)
	}

	response := toProjectResponse(project)
	return &response, nil
}

// GetProjects handles project.getProjects
func (h *ProjectHandler) GetProjects(ctx *rpc.Context, _ rpc.NoInput) ([]ProjectResponse, error) {
	projects, err := h.service.GetProjects(ctx, ctx.Identity)
	if err != nil {
		return nil, h.handleServiceError(err)
	}

	response := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		response = append(response, toProjectResponse(&projects[i]))
	}
	return response, nil
}

func toProjectResponse(project *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:        project.ID,
		Name:      project.Name,
		GithubURL: project.GithubURL,
		CreatedAt: project.CreatedAt,
	}
}

// handleServiceError maps service errors to procedure errors
func (h *ProjectHandler) handleServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidProject):
		return rpc.NewError(rpc.CodeBadRequest, "Project name and GitHub URL are required", err)
	case errors.Is(err, service.ErrEmailNotFound):
		return rpc.NewError(rpc.CodeInternal, "User email not found", err)
	case errors.Is(err, repository.ErrUserNotFound):
		return rpc.NewError(rpc.CodeInternal, "User not found", err)
	case errors.Is(err, identity.ErrUserNotFound):
		return rpc.NewError(rpc.CodeInternal, "User not found at identity provider", err)
	default:
		h.logger.Error("❌ [Handler] Internal server error", "error", err)
		return rpc.AsError(err)
	}
}
