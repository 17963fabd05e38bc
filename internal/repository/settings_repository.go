package repository

import (
	"context"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const settingsDocument = "site_settings"

// SettingsRepository provides persistence for the site settings document.
type SettingsRepository struct {
	store *docstore.Store
}

// NewSettingsRepository creates the repository.
func NewSettingsRepository(store *docstore.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns the settings document, falling back to defaults when the file
// does not exist yet.
func (r *SettingsRepository) Get(ctx context.Context) (*models.SiteSettings, error) {
	settings := models.DefaultSiteSettings()
	if err := r.store.Load(settingsDocument, &settings); err != nil {
		return nil, err
	}
	if len(settings.Widgets) == 0 {
		settings.Widgets = models.DefaultWidgets()
	}
	return &settings, nil
}

// Save overwrites the settings document.
func (r *SettingsRepository) Save(ctx context.Context, settings *models.SiteSettings) error {
	return r.store.Save(settingsDocument, settings)
}
