package models

// Widget is one configurable dashboard card.
type Widget struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Type     string `json:"type"`
	Content  string `json:"content,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// WidgetCard is a widget resolved with its live value for the dashboard.
type WidgetCard struct {
	Widget
	Value  interface{} `json:"value,omitempty"`
	Helper string      `json:"helper,omitempty"`
}

// WidgetUpdate re-titles or toggles one dashboard card.
type WidgetUpdate struct {
	ID       string  `json:"id" validate:"required"`
	Title    *string `json:"title,omitempty"`
	Subtitle *string `json:"subtitle,omitempty"`
	Enabled  *bool   `json:"enabled,omitempty"`
}

// SiteSettingsInput updates the visual identity. Nil fields keep their
// current value.
type SiteSettingsInput struct {
	LogoURL        *string        `json:"logo_url,omitempty"`
	PrimaryColor   *string        `json:"primary_color,omitempty"`
	AccentColor    *string        `json:"accent_color,omitempty"`
	Tagline        *string        `json:"tagline,omitempty"`
	OnboardingDone *bool          `json:"onboarding_done,omitempty"`
	Widgets        []WidgetUpdate `json:"widgets,omitempty"`
}

// SiteSettings holds the visual identity and dashboard configuration.
type SiteSettings struct {
	LogoURL        string   `json:"logo_url"`
	PrimaryColor   string   `json:"primary_color"`
	AccentColor    string   `json:"accent_color"`
	Tagline        string   `json:"tagline"`
	OnboardingDone bool     `json:"onboarding_done"`
	Widgets        []Widget `json:"widgets"`
}

// DefaultWidgets is the built-in dashboard layout; stored widgets are
// normalized against it so new cards appear after upgrades.
func DefaultWidgets() []Widget {
	return []Widget{
		{
			ID:       "welcome",
			Title:    "Boas-vindas",
			Subtitle: "Orientação rápida",
			Type:     "text",
			Content:  "Use as guias para organizar o jornal e mantenha as permissões em dia.",
			Enabled:  true,
		},
		{
			ID:       "students",
			Title:    "Equipe ativa",
			Subtitle: "Fichas cadastradas",
			Type:     "metric",
			Enabled:  true,
		},
		{
			ID:       "tickets",
			Title:    "Tickets abertos",
			Subtitle: "Chamados aguardando resposta",
			Type:     "metric",
			Enabled:  true,
		},
		{
			ID:       "agenda",
			Title:    "Próximo evento",
			Subtitle: "Calendário geral",
			Type:     "event",
			Enabled:  true,
		},
		{
			ID:       "departments",
			Title:    "Filas de departamentos",
			Subtitle: "Pedidos para aprovar",
			Type:     "metric",
			Enabled:  true,
		},
	}
}

// DefaultSiteSettings seeds the settings document on first boot.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		LogoURL:      "",
		PrimaryColor: "#0d6efd",
		AccentColor:  "#6610f2",
		Tagline:      "Painel interno do jornal escolar",
		Widgets:      DefaultWidgets(),
	}
}
