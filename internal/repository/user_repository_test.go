package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornal-escolar/portal-api/internal/models"
)

func TestUserRepositoryCreateRejectsDuplicateUsername(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{ID: "u-1", Username: "maria", Name: "Maria"}))

	err := repo.Create(ctx, &models.User{ID: "u-2", Username: "maria", Name: "Outra Maria"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepositoryFindByUsername(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{ID: "u-1", Username: "joao", Name: "João"}))

	found, err := repo.FindByUsername(ctx, "joao")
	require.NoError(t, err)
	assert.Equal(t, "u-1", found.ID)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestRoleRepositorySeedsDefaults(t *testing.T) {
	repo, err := NewRoleRepository(newTestStore(t))
	require.NoError(t, err)

	roles, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, roles)

	admin, err := repo.FindByName(context.Background(), models.RoleAdministrator)
	require.NoError(t, err)
	assert.ElementsMatch(t, models.AllPermissions, admin.Permissions)
}
