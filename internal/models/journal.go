package models

import "time"

// JournalStatus tracks the approval workflow of a submitted issue.
type JournalStatus string

const (
	JournalStatusPending  JournalStatus = "PENDING"
	JournalStatusApproved JournalStatus = "APPROVED"
	JournalStatusRejected JournalStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transitions.
func (s JournalStatus) Terminal() bool {
	return s == JournalStatusApproved || s == JournalStatusRejected
}

// JournalSubmission carries the form fields of a new issue submission.
type JournalSubmission struct {
	Title       string `form:"title" json:"title" validate:"required"`
	Edition     string `form:"edition" json:"edition" validate:"required"`
	ReleaseDate string `form:"release_date" json:"release_date" validate:"required,datetime=2006-01-02"`
	Description string `form:"description" json:"description"`
}

// Journal is one submitted newspaper issue awaiting approval. Once a decision
// lands the record is immutable; re-submission creates a new record that
// points back via PreviousID.
type Journal struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Edition       string        `json:"edition"`
	ReleaseDate   string        `json:"release_date"`
	Description   string        `json:"description"`
	File          string        `json:"file,omitempty"`
	Status        JournalStatus `json:"status"`
	RejectReason  string        `json:"reject_reason,omitempty"`
	ApprovalToken string        `json:"approval_token"`
	PreviousID    string        `json:"previous_id,omitempty"`
	DecidedAt     *time.Time    `json:"decided_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
