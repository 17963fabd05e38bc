package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

func newDashboardFixture(t *testing.T) (*DashboardService, *docstore.Store) {
	t.Helper()
	store, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	svc := NewDashboardService(
		repository.NewSettingsRepository(store),
		repository.NewStudentRepository(store),
		repository.NewTicketRepository(store),
		repository.NewDepartmentRepository(store),
		repository.NewCalendarRepository(store),
		nil,
	)
	return svc, store
}

func TestDashboardServiceCards(t *testing.T) {
	svc, store := newDashboardFixture(t)
	ctx := context.Background()

	students := repository.NewStudentRepository(store)
	require.NoError(t, students.Create(ctx, &models.Student{ID: "s-1", Name: "Ana", PortalEnabled: true}))
	require.NoError(t, students.Create(ctx, &models.Student{ID: "s-2", Name: "Beto", PortalEnabled: false}))

	tickets := repository.NewTicketRepository(store)
	require.NoError(t, tickets.Create(ctx, &models.Ticket{ID: "t-1", Status: models.TicketStatusOpen}))
	require.NoError(t, tickets.Create(ctx, &models.Ticket{ID: "t-2", Status: models.TicketStatusClosed}))

	departments := repository.NewDepartmentRepository(store)
	require.NoError(t, departments.Create(ctx, &models.Department{
		ID:        "d-1",
		Name:      "Redação",
		JoinToken: "tok",
		Queue: []models.JoinRequest{
			{ID: "r-1", Status: models.JoinRequestPending},
			{ID: "r-2", Status: models.JoinRequestApproved},
		},
	}))

	calendar := repository.NewCalendarRepository(store)
	future := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	require.NoError(t, calendar.Create(ctx, &models.CalendarEvent{ID: "e-1", Title: "Fechamento", Date: future}))

	cards, err := svc.Cards(ctx)
	require.NoError(t, err)

	byID := map[string]models.WidgetCard{}
	for _, card := range cards {
		byID[card.ID] = card
	}
	assert.Equal(t, 1, byID["students"].Value)
	assert.Equal(t, 1, byID["tickets"].Value)
	assert.Equal(t, 1, byID["departments"].Value)
	assert.Equal(t, future, byID["agenda"].Helper)
	assert.NotEmpty(t, byID["welcome"].Content)
}

func TestDashboardServiceSkipsDisabledWidgets(t *testing.T) {
	svc, store := newDashboardFixture(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(store)
	current, err := settings.Get(ctx)
	require.NoError(t, err)
	for i := range current.Widgets {
		if current.Widgets[i].ID == "welcome" {
			current.Widgets[i].Enabled = false
		}
	}
	require.NoError(t, settings.Save(ctx, current))

	cards, err := svc.Cards(ctx)
	require.NoError(t, err)
	for _, card := range cards {
		assert.NotEqual(t, "welcome", card.ID)
	}
	assert.Len(t, cards, len(models.DefaultWidgets())-1)
}
