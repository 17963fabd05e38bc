package models

import "time"

// JoinRequestStatus tracks a pending department membership application.
type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "PENDING"
	JoinRequestApproved JoinRequestStatus = "APPROVED"
	JoinRequestRejected JoinRequestStatus = "REJECTED"
)

// Member is an accepted department participant.
type Member struct {
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// JoinRequest sits in a department queue until a director decides it.
type JoinRequest struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Contact     string            `json:"contact"`
	DesiredRole string            `json:"desired_role"`
	Motivation  string            `json:"motivation"`
	Status      JoinRequestStatus `json:"status"`
	DecidedAt   *time.Time        `json:"decided_at,omitempty"`
	DecidedBy   string            `json:"decided_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// DepartmentInput carries the fields accepted when creating a department.
type DepartmentInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Director    string `json:"director"`
}

// MemberInput adds a member directly, skipping the queue.
type MemberInput struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role"`
}

// JoinApplication is the public form behind a department join link.
type JoinApplication struct {
	Name        string `json:"name" validate:"required"`
	Contact     string `json:"contact"`
	DesiredRole string `json:"desired_role"`
	Motivation  string `json:"motivation"`
}

// Department groups members under a director with a public join link.
type Department struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Director    string        `json:"director"`
	JoinToken   string        `json:"join_token"`
	Members     []Member      `json:"members"`
	Queue       []JoinRequest `json:"queue"`
}

// PendingQueue counts queue entries still awaiting a decision.
func (d Department) PendingQueue() int {
	count := 0
	for _, req := range d.Queue {
		if req.Status == JoinRequestPending {
			count++
		}
	}
	return count
}
