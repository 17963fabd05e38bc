package models

// CalendarEventInput carries the fields accepted when scheduling an event.
type CalendarEventInput struct {
	Title        string `json:"title" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Category     string `json:"category"`
	DepartmentID string `json:"department_id"`
	Description  string `json:"description"`
}

// CalendarEvent is an entry in the shared newsroom calendar. Date is an
// ISO `YYYY-MM-DD` string, matching how the documents are edited by hand.
type CalendarEvent struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	Category     string `json:"category"`
	DepartmentID string `json:"department_id,omitempty"`
	Description  string `json:"description"`
}
