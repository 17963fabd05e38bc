package repository

import (
	"context"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const rulesDocument = "rules"

// RulesRepository provides persistence for the single rules document.
type RulesRepository struct {
	store *docstore.Store
}

// NewRulesRepository creates the repository.
func NewRulesRepository(store *docstore.Store) *RulesRepository {
	return &RulesRepository{store: store}
}

// Get returns the rules document, falling back to the default content when
// the file does not exist yet.
func (r *RulesRepository) Get(ctx context.Context) (*models.Rules, error) {
	rules := models.DefaultRules()
	if err := r.store.Load(rulesDocument, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

// Save overwrites the rules document.
func (r *RulesRepository) Save(ctx context.Context, rules *models.Rules) error {
	return r.store.Save(rulesDocument, rules)
}
