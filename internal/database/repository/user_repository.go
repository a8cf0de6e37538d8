package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	UpsertByEmail(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// UpsertByEmail inserts the user or, when the email already exists, overwrites the profile
// columns. Relies on the unique index on users.email, so concurrent calls converge on one row.
func (r *userRepository) UpsertByEmail(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"image_url", "first_name", "last_name", "updated_at"}),
		}).
		Create(user).Error
	if err != nil {
		return nil, err
	}

	// The conflict path does not reliably report the existing primary key on every driver.
	return r.FindByEmail(ctx, user.Email)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findUserByEmail(r.db.WithContext(ctx), email)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func findUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Repository errors
var (
	ErrUserNotFound = errors.New("user not found")
)
