package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jornal-escolar/portal-api/internal/models"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Save(ctx context.Context, settings *models.SiteSettings) error
}

// SettingsService manages visual identity and dashboard widget layout.
type SettingsService struct {
	repo      settingsRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs a SettingsService instance.
func NewSettingsService(repo settingsRepository, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SettingsService{repo: repo, validator: validate, logger: logger}
}

// Get returns the current settings with the widget list normalized against
// the built-in defaults, so cards added after an upgrade show up.
func (s *SettingsService) Get(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	settings.Widgets = normalizeWidgets(settings.Widgets)
	return settings, nil
}

// Update applies partial changes to the settings document.
func (s *SettingsService) Update(ctx context.Context, input models.SiteSettingsInput) (*models.SiteSettings, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.LogoURL != nil {
		settings.LogoURL = *input.LogoURL
	}
	if input.PrimaryColor != nil {
		settings.PrimaryColor = *input.PrimaryColor
	}
	if input.AccentColor != nil {
		settings.AccentColor = *input.AccentColor
	}
	if input.Tagline != nil {
		settings.Tagline = *input.Tagline
	}
	if input.OnboardingDone != nil {
		settings.OnboardingDone = *input.OnboardingDone
	}
	for _, update := range input.Widgets {
		for i := range settings.Widgets {
			if settings.Widgets[i].ID != update.ID {
				continue
			}
			if update.Title != nil {
				settings.Widgets[i].Title = *update.Title
			}
			if update.Subtitle != nil {
				settings.Widgets[i].Subtitle = *update.Subtitle
			}
			if update.Enabled != nil {
				settings.Widgets[i].Enabled = *update.Enabled
			}
		}
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	return settings, nil
}

// normalizeWidgets merges stored widgets with the default catalog: stored
// title, subtitle and enabled flags win, unknown stored widgets are dropped,
// missing defaults are appended.
func normalizeWidgets(stored []models.Widget) []models.Widget {
	byID := make(map[string]models.Widget, len(stored))
	for _, w := range stored {
		byID[w.ID] = w
	}
	normalized := make([]models.Widget, 0, len(stored))
	for _, def := range models.DefaultWidgets() {
		if w, ok := byID[def.ID]; ok {
			def.Title = w.Title
			def.Enabled = w.Enabled
			if w.Subtitle != "" {
				def.Subtitle = w.Subtitle
			}
			if w.Content != "" {
				def.Content = w.Content
			}
		}
		normalized = append(normalized, def)
	}
	return normalized
}
