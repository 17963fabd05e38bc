package models

import "time"

// TicketStatus is the open/closed lifecycle of a support ticket.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "OPEN"
	TicketStatusClosed TicketStatus = "CLOSED"
)

// TicketReasons is the fixed catalog shown on the ticket form. "Outro"
// accepts a custom reason text.
var TicketReasons = []string{
	"Problema técnico",
	"Solicitação de acesso",
	"Orientação de conteúdo",
	"Conflito de agenda",
	"Outro",
}

// TicketInput opens a new ticket. Reason must come from TicketReasons;
// "Outro" requires CustomReason.
type TicketInput struct {
	Title        string `json:"title" validate:"required"`
	Reason       string `json:"reason" validate:"required"`
	CustomReason string `json:"custom_reason"`
	Urgency      string `json:"urgency"`
	Message      string `json:"message" validate:"required"`
}

// TicketReplyInput appends a message to an existing ticket.
type TicketReplyInput struct {
	Body string `json:"body" validate:"required"`
}

// TicketMessage is one entry of a ticket conversation.
type TicketMessage struct {
	Author    string    `json:"author"`
	Role      string    `json:"role"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// Ticket is a departmental support request with an ordered chat trail.
type Ticket struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Reason      string          `json:"reason"`
	Urgency     string          `json:"urgency"`
	Status      TicketStatus    `json:"status"`
	CreatedBy   string          `json:"created_by"`
	CreatedRole string          `json:"created_role"`
	Messages    []TicketMessage `json:"messages"`
	CreatedAt   time.Time       `json:"created_at"`
}
