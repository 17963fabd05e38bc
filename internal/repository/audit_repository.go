package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const auditDocument = "audit"

// AuditRepository provides persistence for the audit trail document.
type AuditRepository struct {
	store *docstore.Store
}

// NewAuditRepository creates the repository.
func NewAuditRepository(store *docstore.Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// Append adds an entry to the trail.
func (r *AuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	var entries []models.AuditEntry
	return r.store.Update(auditDocument, &entries, func() error {
		entries = append(entries, *entry)
		return nil
	})
}

// List returns the trail, newest first.
func (r *AuditRepository) List(ctx context.Context) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	if err := r.store.Load(auditDocument, &entries); err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}
