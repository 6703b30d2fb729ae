package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/qa-eval-api/internal/domain/entity"
	apperrors "github.com/yourusername/qa-eval-api/internal/pkg/errors"
)

func TestUserRepoCreateAndGetByEmail(t *testing.T) {
	repo := NewUserRepo()

	id, err := repo.Create(&entity.User{Email: "admin@example.com", Name: "Админ", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	// Поиск по email регистронезависимый
	user, err := repo.GetByEmail("Admin@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "Админ", user.Name)
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	repo := NewUserRepo()

	_, err := repo.Create(&entity.User{Email: "admin@example.com"})
	require.NoError(t, err)

	_, err = repo.Create(&entity.User{Email: "ADMIN@example.com"})
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestUserRepoMisses(t *testing.T) {
	repo := NewUserRepo()

	_, err := repo.GetByID(1)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = repo.GetByEmail("nobody@example.com")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
