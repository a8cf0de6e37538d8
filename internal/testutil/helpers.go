package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/identity"
)

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDB opens a private in-memory SQLite database with the schema migrated.
// The pool is pinned to one connection so every query sees the same database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.UserProject{}))
	return db
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Profile builds a provider profile with the given email and optional names
func Profile(userID, email string) *identity.Profile {
	return &identity.Profile{
		UserID:    userID,
		Email:     StringPtr(email),
		FirstName: StringPtr("Ada"),
		LastName:  StringPtr("Lovelace"),
		ImageURL:  StringPtr("https://img.example.com/ada.png"),
	}
}
