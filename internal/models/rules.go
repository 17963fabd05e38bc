package models

import "time"

// Rules is the single-document newsroom conduct manual.
type Rules struct {
	Content   string     `json:"content"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DefaultRules seeds the rules document on first boot.
func DefaultRules() Rules {
	return Rules{Content: "Defina aqui as regras de convivência do jornal."}
}
