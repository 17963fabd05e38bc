package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

type roleRepository interface {
	List(ctx context.Context) ([]models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
}

// RoleService manages named permission sets.
type RoleService struct {
	repo      roleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoleService constructs a RoleService instance.
func NewRoleService(repo roleRepository, validate *validator.Validate, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RoleService{repo: repo, validator: validate, logger: logger}
}

// List returns every role.
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roles")
	}
	return roles, nil
}

// Permissions returns the fixed permission vocabulary.
func (s *RoleService) Permissions() []string {
	return append([]string(nil), models.AllPermissions...)
}

// Create adds a role. Unknown permission names are rejected.
func (s *RoleService) Create(ctx context.Context, input models.RoleInput) (*models.Role, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	for _, perm := range input.Permissions {
		if !knownPermission(perm) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown permission "+perm)
		}
	}
	role := &models.Role{
		Name:        input.Name,
		Description: input.Description,
		Permissions: input.Permissions,
	}
	if role.Permissions == nil {
		role.Permissions = []string{}
	}
	if err := s.repo.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "role name is already taken")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist role")
	}
	return role, nil
}

func knownPermission(perm string) bool {
	for _, known := range models.AllPermissions {
		if perm == known {
			return true
		}
	}
	return false
}
