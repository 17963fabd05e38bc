package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin           = "LOGIN"
	AuditActionJournalDecision = "JOURNAL_DECISION"
	AuditActionQueueDecision   = "QUEUE_DECISION"
	AuditActionUserCreate      = "USER_CREATE"
	AuditActionUserToggle      = "USER_TOGGLE"
	AuditActionTicketDelete    = "TICKET_DELETE"
)

// AuditEntry records who did what in the portal's audit document.
type AuditEntry struct {
	ID         string    `json:"id"`
	Username   string    `json:"username,omitempty"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
