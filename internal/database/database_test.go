package database

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPingAndClose(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Ping(context.Background(), db))
	require.NoError(t, Close(db))
	assert.Error(t, Ping(context.Background(), db))
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(embedMigrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		body, err := fs.ReadFile(embedMigrations, name)
		require.NoError(t, err)

		sql := string(body)
		assert.Contains(t, sql, "-- +goose Up", name)
		assert.Contains(t, sql, "-- +goose Down", name)
	}

	schema, err := fs.ReadFile(embedMigrations, files[0])
	require.NoError(t, err)
	for _, table := range []string{"users", "projects", "user_projects"} {
		assert.True(t, strings.Contains(string(schema), "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
	assert.Contains(t, string(schema), "idx_users_email ON users (email)")
	assert.Contains(t, string(schema), "idx_user_project ON user_projects (user_id, project_id)")
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.ParseInt(mr.Port(), 10, 64)
	require.NoError(t, err)

	cfg := &config.Config{RedisHost: mr.Host(), RedisPort: port}

	client, err := NewRedisClient(cfg, discardLogger())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, err := strconv.ParseInt(mr.Port(), 10, 64)
	require.NoError(t, err)
	mr.Close()

	client, err := NewRedisClient(&config.Config{RedisHost: host, RedisPort: port}, discardLogger())
	assert.Error(t, err)
	assert.Nil(t, client)
}
