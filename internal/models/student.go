package models

import "time"

// StudentInput carries the fields accepted when creating or editing a
// roster record.
type StudentInput struct {
	Name    string `json:"name" validate:"required"`
	Role    string `json:"role"`
	Contact string `json:"contact"`
	Notes   string `json:"notes"`
}

// Student is a participant record in the newspaper roster. Records are never
// deleted; portal access is toggled instead.
type Student struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	Contact       string    `json:"contact"`
	Notes         string    `json:"notes"`
	PortalEnabled bool      `json:"portal_enabled"`
	CreatedAt     time.Time `json:"created_at"`
}
