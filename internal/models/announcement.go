package models

import "time"

// AnnouncementInput carries the fields accepted when publishing.
type AnnouncementInput struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body" validate:"required"`
	Audience string `json:"audience"`
	Pinned   bool   `json:"pinned"`
}

// Announcement is an administrative message shown on the portal.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Audience  string    `json:"audience"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
}
