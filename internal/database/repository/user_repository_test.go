package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/testutil"
)

func TestUserRepository_UpsertByEmail_Inserts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.UpsertByEmail(ctx, &models.User{
		Email:     "a@x.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		ImageURL:  "https://img/ada.png",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "Ada", user.FirstName)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)
}

func TestUserRepository_UpsertByEmail_UpdatesExistingRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	first, err := repo.UpsertByEmail(ctx, &models.User{Email: "a@x.com", FirstName: "Ada"})
	require.NoError(t, err)

	second, err := repo.UpsertByEmail(ctx, &models.User{
		Email:     "a@x.com",
		FirstName: "Augusta",
		LastName:  "King",
		ImageURL:  "https://img/new.png",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Augusta", second.FirstName)
	assert.Equal(t, "King", second.LastName)
	assert.Equal(t, "https://img/new.png", second.ImageURL)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_UpsertByEmail_Idempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	input := models.User{Email: "a@x.com", FirstName: "Ada", LastName: "Lovelace"}

	for i := 0; i < 3; i++ {
		u := input
		_, err := repo.UpsertByEmail(ctx, &u)
		require.NoError(t, err)
	}

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "Ada", users[0].FirstName)
	assert.Equal(t, "Lovelace", users[0].LastName)
}

func TestUserRepository_UpsertByEmail_Concurrent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.UpsertByEmail(ctx, &models.User{
				Email:     "a@x.com",
				FirstName: fmt.Sprintf("Ada-%d", i),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_FindNotFound(t *testing.T) {
	repo := repository.NewUserRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
