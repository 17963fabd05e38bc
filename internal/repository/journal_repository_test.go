package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

func newTestStore(t *testing.T) *docstore.Store {
	t.Helper()
	store, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestJournalRepositoryCreateAndFind(t *testing.T) {
	repo := NewJournalRepository(newTestStore(t))
	ctx := context.Background()

	journal := &models.Journal{
		ID:            "j-1",
		Title:         "Edição 12",
		Edition:       "12",
		ReleaseDate:   "2026-03-01",
		Status:        models.JournalStatusPending,
		ApprovalToken: "tok-1",
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, journal))

	found, err := repo.FindByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "j-1", found.ID)

	_, err = repo.FindByToken(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestJournalRepositoryListSortsByReleaseDate(t *testing.T) {
	repo := NewJournalRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Journal{ID: "old", ReleaseDate: "2025-01-01", ApprovalToken: "a"}))
	require.NoError(t, repo.Create(ctx, &models.Journal{ID: "new", ReleaseDate: "2026-01-01", ApprovalToken: "b"}))

	journals, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, journals, 2)
	assert.Equal(t, "new", journals[0].ID)
}

func TestJournalRepositoryUpdateByToken(t *testing.T) {
	repo := NewJournalRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Journal{
		ID:            "j-1",
		Status:        models.JournalStatusPending,
		ApprovalToken: "tok-1",
	}))

	updated, err := repo.UpdateByToken(ctx, "tok-1", func(j *models.Journal) error {
		j.Status = models.JournalStatusApproved
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.JournalStatusApproved, updated.Status)

	persisted, err := repo.GetByID(ctx, "j-1")
	require.NoError(t, err)
	assert.Equal(t, models.JournalStatusApproved, persisted.Status)
}

func TestJournalRepositoryUpdateMutateErrorAbortsWrite(t *testing.T) {
	repo := NewJournalRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Journal{
		ID:            "j-1",
		Status:        models.JournalStatusApproved,
		ApprovalToken: "tok-1",
	}))

	_, err := repo.UpdateByToken(ctx, "tok-1", func(j *models.Journal) error {
		return context.Canceled
	})
	assert.ErrorIs(t, err, context.Canceled)

	persisted, err := repo.GetByID(ctx, "j-1")
	require.NoError(t, err)
	assert.Equal(t, models.JournalStatusApproved, persisted.Status)
}
