package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jornal-escolar/portal-api/internal/models"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

type calendarRepository interface {
	List(ctx context.Context) ([]models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
}

// CalendarService manages the shared newsroom calendar.
type CalendarService struct {
	repo      calendarRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs a CalendarService instance.
func NewCalendarService(repo calendarRepository, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CalendarService{repo: repo, validator: validate, logger: logger}
}

// List returns every event sorted by date.
func (s *CalendarService) List(ctx context.Context) ([]models.CalendarEvent, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, nil
}

// Create schedules an event.
func (s *CalendarService) Create(ctx context.Context, input models.CalendarEventInput) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	event := &models.CalendarEvent{
		ID:           uuid.NewString(),
		Title:        input.Title,
		Date:         input.Date,
		Category:     input.Category,
		DepartmentID: input.DepartmentID,
		Description:  input.Description,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist event")
	}
	return event, nil
}
