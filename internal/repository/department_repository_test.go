package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornal-escolar/portal-api/internal/models"
)

func TestDepartmentRepositoryFindByJoinToken(t *testing.T) {
	repo := NewDepartmentRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Department{
		ID:        "d-1",
		Name:      "Redação",
		JoinToken: "join-1",
	}))

	found, err := repo.FindByJoinToken(ctx, "join-1")
	require.NoError(t, err)
	assert.Equal(t, "d-1", found.ID)

	_, err = repo.FindByJoinToken(ctx, "nope")
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestDepartmentRepositoryUpdateQueue(t *testing.T) {
	repo := NewDepartmentRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Department{
		ID:        "d-1",
		Name:      "Fotografia",
		JoinToken: "join-1",
		Queue: []models.JoinRequest{
			{ID: "r-1", Name: "Ana", Status: models.JoinRequestPending, CreatedAt: time.Now().UTC()},
		},
	}))

	updated, err := repo.Update(ctx, "d-1", func(d *models.Department) error {
		d.Queue[0].Status = models.JoinRequestApproved
		d.Members = append(d.Members, models.Member{Name: d.Queue[0].Name, Role: "Colaborador"})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.JoinRequestApproved, updated.Queue[0].Status)
	require.Len(t, updated.Members, 1)

	persisted, err := repo.GetByID(ctx, "d-1")
	require.NoError(t, err)
	assert.Len(t, persisted.Members, 1)
	assert.Empty(t, persisted.PendingQueue())
}

func TestDepartmentRepositoryUpdateUnknownID(t *testing.T) {
	repo := NewDepartmentRepository(newTestStore(t))

	_, err := repo.Update(context.Background(), "ghost", func(d *models.Department) error { return nil })
	assert.ErrorIs(t, err, ErrNoRecord)
}
