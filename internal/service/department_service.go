package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
	GetByID(ctx context.Context, id string) (*models.Department, error)
	FindByJoinToken(ctx context.Context, token string) (*models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, id string, mutate func(*models.Department) error) (*models.Department, error)
	UpdateByJoinToken(ctx context.Context, token string, mutate func(*models.Department) error) (*models.Department, error)
}

// JoinInfo is the public view of a department behind a join link.
type JoinInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Director    string `json:"director"`
	Members     int    `json:"members"`
}

// DepartmentService manages departments, their public join links and the
// membership queue.
type DepartmentService struct {
	repo      departmentRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs a DepartmentService instance.
func NewDepartmentService(repo departmentRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DepartmentService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns every department.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// Get returns one department.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return department, nil
}

// Create adds a department with a fresh public join token.
func (s *DepartmentService) Create(ctx context.Context, input models.DepartmentInput) (*models.Department, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	department := &models.Department{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Director:    input.Director,
		JoinToken:   uuid.NewString(),
		Members:     []models.Member{},
		Queue:       []models.JoinRequest{},
	}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist department")
	}
	return department, nil
}

// AddMember appends a member directly, skipping the queue.
func (s *DepartmentService) AddMember(ctx context.Context, id string, input models.MemberInput) (*models.Department, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}
	department, err := s.repo.Update(ctx, id, func(d *models.Department) error {
		d.Members = append(d.Members, models.Member{
			Name:     input.Name,
			Role:     input.Role,
			JoinedAt: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add member")
	}
	return department, nil
}

// ResolveJoinLink returns the public view behind a join token.
func (s *DepartmentService) ResolveJoinLink(ctx context.Context, token string) (*JoinInfo, error) {
	department, err := s.repo.FindByJoinToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrInvalidLink, "join link is invalid or no longer active")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve join link")
	}
	return &JoinInfo{
		Name:        department.Name,
		Description: department.Description,
		Director:    department.Director,
		Members:     len(department.Members),
	}, nil
}

// Apply enqueues a public membership application.
func (s *DepartmentService) Apply(ctx context.Context, token string, application models.JoinApplication) (*models.JoinRequest, error) {
	if err := s.validator.Struct(application); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid join application")
	}
	request := models.JoinRequest{
		ID:          uuid.NewString(),
		Name:        application.Name,
		Contact:     application.Contact,
		DesiredRole: application.DesiredRole,
		Motivation:  application.Motivation,
		Status:      models.JoinRequestPending,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.repo.UpdateByJoinToken(ctx, token, func(d *models.Department) error {
		d.Queue = append(d.Queue, request)
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrInvalidLink, "join link is invalid or no longer active")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue application")
	}
	return &request, nil
}

// DecideQueue approves or rejects one pending queue entry. Approval moves
// the applicant into the member list. A decided entry stays decided.
func (s *DepartmentService) DecideQueue(ctx context.Context, departmentID, requestID string, approve bool, decidedBy string) (*models.Department, error) {
	status := models.JoinRequestRejected
	if approve {
		status = models.JoinRequestApproved
	}

	department, err := s.repo.Update(ctx, departmentID, func(d *models.Department) error {
		for i := range d.Queue {
			if d.Queue[i].ID != requestID {
				continue
			}
			if d.Queue[i].Status != models.JoinRequestPending {
				return appErrors.Clone(appErrors.ErrAlreadyDecided, "this application was already decided")
			}
			now := time.Now().UTC()
			d.Queue[i].Status = status
			d.Queue[i].DecidedAt = &now
			d.Queue[i].DecidedBy = decidedBy
			if approve {
				role := d.Queue[i].DesiredRole
				if role == "" {
					role = "Colaborador"
				}
				d.Members = append(d.Members, models.Member{
					Name:     d.Queue[i].Name,
					Role:     role,
					JoinedAt: now,
				})
			}
			return nil
		}
		return appErrors.Clone(appErrors.ErrNotFound, "application not found")
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, err
	}

	if s.audit != nil {
		if auditErr := s.audit.Append(ctx, &models.AuditEntry{
			Username:   decidedBy,
			Action:     models.AuditActionQueueDecision,
			Resource:   "departments",
			ResourceID: departmentID,
			Detail:     string(status),
		}); auditErr != nil {
			s.logger.Warn("failed to record queue decision", zap.Error(auditErr))
		}
	}
	return department, nil
}
