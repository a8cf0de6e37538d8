package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/models"
)

// ProjectRepository defines the interface for project and membership data operations
type ProjectRepository interface {
	CreateWithMembership(ctx context.Context, project *models.Project, memberEmail string) error
	FindByMemberEmail(ctx context.Context, email string) ([]models.Project, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// CreateWithMembership inserts the project and the membership linking it to the user with
// memberEmail in one transaction. The user must already exist; otherwise ErrUserNotFound is
// returned and neither row is written.
func (r *projectRepository) CreateWithMembership(ctx context.Context, project *models.Project, memberEmail string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUserByEmail(tx, memberEmail)
		if err != nil {
			return err
		}

		if err := tx.Create(project).Error; err != nil {
			return err
		}

		membership := &models.UserProject{
			UserID:    user.ID,
			ProjectID: project.ID,
		}
		return tx.Create(membership).Error
	})
}

// FindByMemberEmail returns active projects joined to the user through an active membership,
// newest first. Soft-deleted projects are filtered by gorm's default scope.
func (r *projectRepository) FindByMemberEmail(ctx context.Context, email string) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.WithContext(ctx).
		Joins("JOIN user_projects ON user_projects.project_id = projects.id AND user_projects.deleted_at IS NULL").
		Joins("JOIN users ON users.id = user_projects.user_id").
		Where("users.email = ?", email).
		Order("projects.created_at DESC").
		Order("projects.id").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}
