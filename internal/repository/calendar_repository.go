package repository

import (
	"context"
	"sort"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const calendarDocument = "calendar"

// CalendarRepository provides persistence for calendar events.
type CalendarRepository struct {
	store *docstore.Store
}

// NewCalendarRepository creates the repository.
func NewCalendarRepository(store *docstore.Store) *CalendarRepository {
	return &CalendarRepository{store: store}
}

// List returns events sorted by date ascending.
func (r *CalendarRepository) List(ctx context.Context) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	if err := r.store.Load(calendarDocument, &events); err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})
	return events, nil
}

// Create appends a new event.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	var events []models.CalendarEvent
	return r.store.Update(calendarDocument, &events, func() error {
		events = append(events, *event)
		return nil
	})
}
