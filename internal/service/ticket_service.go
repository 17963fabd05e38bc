package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

type ticketRepository interface {
	List(ctx context.Context) ([]models.Ticket, error)
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	Create(ctx context.Context, ticket *models.Ticket) error
	Update(ctx context.Context, id string, mutate func(*models.Ticket) error) (*models.Ticket, error)
	Delete(ctx context.Context, id string) error
}

// TicketService runs the support desk. Managers see every ticket, everyone
// else only their own.
type TicketService struct {
	repo      ticketRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTicketService constructs a TicketService instance.
func NewTicketService(repo ticketRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TicketService{repo: repo, audit: audit, validator: validate, logger: logger}
}

func canManage(claims *models.SessionClaims) bool {
	return claims.HasPermission(models.PermManageTickets)
}

// List returns the tickets visible to the caller, newest first.
func (s *TicketService) List(ctx context.Context, claims *models.SessionClaims) ([]models.Ticket, error) {
	tickets, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tickets")
	}
	if canManage(claims) {
		return tickets, nil
	}
	visible := []models.Ticket{}
	for _, ticket := range tickets {
		if ticket.CreatedBy == claims.Username {
			visible = append(visible, ticket)
		}
	}
	return visible, nil
}

// Get returns one ticket if the caller may see it.
func (s *TicketService) Get(ctx context.Context, claims *models.SessionClaims, id string) (*models.Ticket, error) {
	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ticket not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ticket")
	}
	if !canManage(claims) && ticket.CreatedBy != claims.Username {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "ticket belongs to another user")
	}
	return ticket, nil
}

// Create opens a ticket with its first message. The reason must come from
// the fixed catalog; "Outro" takes the custom text instead.
func (s *TicketService) Create(ctx context.Context, claims *models.SessionClaims, input models.TicketInput) (*models.Ticket, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ticket payload")
	}

	reason, err := resolveReason(input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ticket := &models.Ticket{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Reason:      reason,
		Urgency:     input.Urgency,
		Status:      models.TicketStatusOpen,
		CreatedBy:   claims.Username,
		CreatedRole: claims.Role,
		Messages: []models.TicketMessage{{
			Author:    claims.Username,
			Role:      claims.Role,
			Body:      input.Message,
			Timestamp: now,
		}},
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist ticket")
	}
	return ticket, nil
}

func resolveReason(input models.TicketInput) (string, error) {
	for _, known := range models.TicketReasons {
		if input.Reason != known {
			continue
		}
		if known == "Outro" {
			custom := strings.TrimSpace(input.CustomReason)
			if custom == "" {
				return "", appErrors.Clone(appErrors.ErrValidation, "a custom reason is required for \"Outro\"")
			}
			return custom, nil
		}
		return known, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "unknown ticket reason")
}

// Reply appends a message. The creator may reply to open tickets; a manager
// reply to a closed ticket reopens it.
func (s *TicketService) Reply(ctx context.Context, claims *models.SessionClaims, id string, input models.TicketReplyInput) (*models.Ticket, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reply payload")
	}
	manager := canManage(claims)
	ticket, err := s.repo.Update(ctx, id, func(t *models.Ticket) error {
		if !manager && t.CreatedBy != claims.Username {
			return appErrors.Clone(appErrors.ErrForbidden, "ticket belongs to another user")
		}
		if t.Status == models.TicketStatusClosed {
			if !manager {
				return appErrors.Clone(appErrors.ErrConflict, "ticket is closed")
			}
			t.Status = models.TicketStatusOpen
		}
		t.Messages = append(t.Messages, models.TicketMessage{
			Author:    claims.Username,
			Role:      claims.Role,
			Body:      input.Body,
			Timestamp: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ticket not found")
		}
		return nil, err
	}
	return ticket, nil
}

// Close marks a ticket closed, appending an optional closing note.
func (s *TicketService) Close(ctx context.Context, claims *models.SessionClaims, id, note string) (*models.Ticket, error) {
	manager := canManage(claims)
	ticket, err := s.repo.Update(ctx, id, func(t *models.Ticket) error {
		if !manager && t.CreatedBy != claims.Username {
			return appErrors.Clone(appErrors.ErrForbidden, "ticket belongs to another user")
		}
		if t.Status == models.TicketStatusClosed {
			return appErrors.Clone(appErrors.ErrConflict, "ticket is already closed")
		}
		t.Status = models.TicketStatusClosed
		body := strings.TrimSpace(note)
		if body == "" {
			body = "Ticket encerrado."
		}
		t.Messages = append(t.Messages, models.TicketMessage{
			Author:    claims.Username,
			Role:      claims.Role,
			Body:      body,
			Timestamp: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ticket not found")
		}
		return nil, err
	}
	return ticket, nil
}

// Delete removes a ticket entirely. Managers only.
func (s *TicketService) Delete(ctx context.Context, claims *models.SessionClaims, id string) error {
	if !canManage(claims) {
		return appErrors.Clone(appErrors.ErrForbidden, "only ticket managers can delete tickets")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return appErrors.Clone(appErrors.ErrNotFound, "ticket not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete ticket")
	}

	if s.audit != nil {
		if auditErr := s.audit.Append(ctx, &models.AuditEntry{
			Username:   claims.Username,
			Action:     models.AuditActionTicketDelete,
			Resource:   "tickets",
			ResourceID: id,
		}); auditErr != nil {
			s.logger.Warn("failed to record ticket deletion", zap.Error(auditErr))
		}
	}
	return nil
}
