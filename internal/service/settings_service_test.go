package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

func newSettingsService(t *testing.T) *SettingsService {
	t.Helper()
	store, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	return NewSettingsService(repository.NewSettingsRepository(store), nil, nil)
}

func TestSettingsServiceGetSeedsDefaults(t *testing.T) {
	svc := newSettingsService(t)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, settings.Widgets, len(models.DefaultWidgets()))
	assert.NotEmpty(t, settings.PrimaryColor)
}

func TestSettingsServicePartialUpdate(t *testing.T) {
	svc := newSettingsService(t)

	tagline := "Edição especial"
	updated, err := svc.Update(context.Background(), models.SiteSettingsInput{Tagline: &tagline})
	require.NoError(t, err)
	assert.Equal(t, "Edição especial", updated.Tagline)
	assert.Equal(t, models.DefaultSiteSettings().PrimaryColor, updated.PrimaryColor)
}

func TestSettingsServiceWidgetUpdateAndNormalization(t *testing.T) {
	svc := newSettingsService(t)

	title := "Time em campo"
	subtitle := "Quem está na redação"
	disabled := false
	updated, err := svc.Update(context.Background(), models.SiteSettingsInput{
		Widgets: []models.WidgetUpdate{
			{ID: "students", Title: &title, Subtitle: &subtitle},
			{ID: "tickets", Enabled: &disabled},
			{ID: "inexistente", Title: &title},
		},
	})
	require.NoError(t, err)

	byID := map[string]models.Widget{}
	for _, w := range updated.Widgets {
		byID[w.ID] = w
	}
	assert.Equal(t, "Time em campo", byID["students"].Title)
	assert.Equal(t, "Quem está na redação", byID["students"].Subtitle)
	assert.False(t, byID["tickets"].Enabled)
	_, exists := byID["inexistente"]
	assert.False(t, exists)
	assert.Len(t, updated.Widgets, len(models.DefaultWidgets()))

	reloaded, err := svc.Get(context.Background())
	require.NoError(t, err)
	for _, w := range reloaded.Widgets {
		if w.ID == "students" {
			assert.Equal(t, "Quem está na redação", w.Subtitle)
		}
	}
}
