package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evcharge/backend/services/auth-service/internal/db"
	"evcharge/backend/services/auth-service/internal/models"
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

func runUserContract(t *testing.T, repo userStore) {
	ctx := context.Background()

	user := &models.User{ID: uuid.NewString(), Email: "  Ada@Example.com ", Name: "Ada", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "ada@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := repo.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "hash", got.PasswordHash)

	dup := &models.User{ID: uuid.NewString(), Email: "ada@example.com", Name: "Other", PasswordHash: "x"}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateEmail)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserRepository(t *testing.T) {
	runUserContract(t, NewMemoryUserRepository())
}

func TestPostgresUserRepository(t *testing.T) {
	dsn := os.Getenv("AUTH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("AUTH_TEST_POSTGRES_DSN not set")
	}
	sqlDB, err := db.NewPostgres(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx, sqlDB))
	_, err = sqlDB.ExecContext(ctx, `DELETE FROM users`)
	require.NoError(t, err)

	runUserContract(t, NewUserRepository(sqlDB))
}
