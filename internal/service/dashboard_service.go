package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jornal-escolar/portal-api/internal/models"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

type dashboardSettings interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
}

type dashboardStudents interface {
	List(ctx context.Context) ([]models.Student, error)
}

type dashboardTickets interface {
	List(ctx context.Context) ([]models.Ticket, error)
}

type dashboardDepartments interface {
	List(ctx context.Context) ([]models.Department, error)
}

type dashboardCalendar interface {
	List(ctx context.Context) ([]models.CalendarEvent, error)
}

// DashboardService resolves the configured widgets into live cards.
type DashboardService struct {
	settings    dashboardSettings
	students    dashboardStudents
	tickets     dashboardTickets
	departments dashboardDepartments
	calendar    dashboardCalendar
	logger      *zap.Logger
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(settings dashboardSettings, students dashboardStudents, tickets dashboardTickets, departments dashboardDepartments, calendar dashboardCalendar, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		settings:    settings,
		students:    students,
		tickets:     tickets,
		departments: departments,
		calendar:    calendar,
		logger:      logger,
	}
}

// Cards returns the enabled widgets with their current values.
func (s *DashboardService) Cards(ctx context.Context) ([]models.WidgetCard, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	cards := []models.WidgetCard{}
	for _, widget := range normalizeWidgets(settings.Widgets) {
		if !widget.Enabled {
			continue
		}
		card := models.WidgetCard{Widget: widget}
		if err := s.fill(ctx, &card); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *DashboardService) fill(ctx context.Context, card *models.WidgetCard) error {
	switch card.ID {
	case "students":
		students, err := s.students.List(ctx)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
		}
		active := 0
		for _, st := range students {
			if st.PortalEnabled {
				active++
			}
		}
		card.Value = active
		card.Helper = "com acesso ao portal"
	case "tickets":
		tickets, err := s.tickets.List(ctx)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count tickets")
		}
		open := 0
		for _, ticket := range tickets {
			if ticket.Status == models.TicketStatusOpen {
				open++
			}
		}
		card.Value = open
		card.Helper = "aguardando resposta"
	case "departments":
		departments, err := s.departments.List(ctx)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count queues")
		}
		pending := 0
		for _, department := range departments {
			pending += department.PendingQueue()
		}
		card.Value = pending
		card.Helper = "pedidos pendentes"
	case "agenda":
		events, err := s.calendar.List(ctx)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
		}
		today := time.Now().UTC().Format("2006-01-02")
		card.Helper = "sem eventos agendados"
		for _, event := range events {
			if event.Date >= today {
				card.Value = event
				card.Helper = event.Date
				break
			}
		}
	}
	return nil
}
