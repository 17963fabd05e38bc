package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, mutate func(*models.User) error) (*models.User, error)
}

// UserService manages portal accounts.
type UserService struct {
	users     userRepository
	roles     authRoleRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users userRepository, roles authRoleRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{users: users, roles: roles, audit: audit, validator: validate, logger: logger}
}

// List returns every account with password hashes blanked.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Create adds an account with a bcrypt hash and portal access enabled. The
// role must exist.
func (s *UserService) Create(ctx context.Context, actor string, input models.UserInput) (*models.User, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	if _, err := s.roles.FindByName(ctx, input.Role); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Username:      input.Username,
		Role:          input.Role,
		PasswordHash:  string(hash),
		PortalEnabled: true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username is already taken")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist user")
	}

	s.record(ctx, actor, models.AuditActionUserCreate, user.ID, user.Username)

	created := *user
	created.PasswordHash = ""
	return &created, nil
}

// ToggleAccess flips portal access for an account.
func (s *UserService) ToggleAccess(ctx context.Context, actor, id string) (*models.User, error) {
	user, err := s.users.Update(ctx, id, func(u *models.User) error {
		u.PortalEnabled = !u.PortalEnabled
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle access")
	}

	s.record(ctx, actor, models.AuditActionUserToggle, user.ID, user.Username)

	user.PasswordHash = ""
	return user, nil
}

// ChangeRole moves an account to another existing role.
func (s *UserService) ChangeRole(ctx context.Context, actor, id, roleName string) (*models.User, error) {
	if _, err := s.roles.FindByName(ctx, roleName); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role")
	}
	user, err := s.users.Update(ctx, id, func(u *models.User) error {
		u.Role = roleName
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change role")
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) record(ctx context.Context, actor, action, resourceID, detail string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Append(ctx, &models.AuditEntry{
		Username:   actor,
		Action:     action,
		Resource:   "users",
		ResourceID: resourceID,
		Detail:     detail,
	}); err != nil {
		s.logger.Warn("failed to record user audit entry", zap.Error(err))
	}
}
