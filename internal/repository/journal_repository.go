package repository

import (
	"context"
	"sort"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const journalsDocument = "journals"

// JournalRepository provides persistence for newspaper issues.
type JournalRepository struct {
	store *docstore.Store
}

// NewJournalRepository creates the repository.
func NewJournalRepository(store *docstore.Store) *JournalRepository {
	return &JournalRepository{store: store}
}

// List returns all issues sorted by release date, newest first.
func (r *JournalRepository) List(ctx context.Context) ([]models.Journal, error) {
	var journals []models.Journal
	if err := r.store.Load(journalsDocument, &journals); err != nil {
		return nil, err
	}
	sort.Slice(journals, func(i, j int) bool {
		return journals[i].ReleaseDate > journals[j].ReleaseDate
	})
	return journals, nil
}

// GetByID returns an issue by identifier.
func (r *JournalRepository) GetByID(ctx context.Context, id string) (*models.Journal, error) {
	var journals []models.Journal
	if err := r.store.Load(journalsDocument, &journals); err != nil {
		return nil, err
	}
	for i := range journals {
		if journals[i].ID == id {
			journal := journals[i]
			return &journal, nil
		}
	}
	return nil, ErrNoRecord
}

// FindByToken returns the issue carrying the given approval token.
func (r *JournalRepository) FindByToken(ctx context.Context, token string) (*models.Journal, error) {
	var journals []models.Journal
	if err := r.store.Load(journalsDocument, &journals); err != nil {
		return nil, err
	}
	for i := range journals {
		if journals[i].ApprovalToken == token {
			journal := journals[i]
			return &journal, nil
		}
	}
	return nil, ErrNoRecord
}

// Create appends a new issue record.
func (r *JournalRepository) Create(ctx context.Context, journal *models.Journal) error {
	var journals []models.Journal
	return r.store.Update(journalsDocument, &journals, func() error {
		journals = append(journals, *journal)
		return nil
	})
}

// UpdateByToken applies mutate to the issue carrying the approval token.
// The mutation runs under the document lock so a status check followed by a
// transition cannot race with a concurrent decision.
func (r *JournalRepository) UpdateByToken(ctx context.Context, token string, mutate func(*models.Journal) error) (*models.Journal, error) {
	var journals []models.Journal
	var updated *models.Journal
	err := r.store.Update(journalsDocument, &journals, func() error {
		for i := range journals {
			if journals[i].ApprovalToken == token {
				if err := mutate(&journals[i]); err != nil {
					return err
				}
				record := journals[i]
				updated = &record
				return nil
			}
		}
		return ErrNoRecord
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
