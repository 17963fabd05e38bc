package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	"github.com/jornal-escolar/portal-api/pkg/config"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

type authUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type authRoleRepository interface {
	FindByName(ctx context.Context, name string) (*models.Role, error)
}

type auditRecorder interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
}

// AuthConfig defines configuration for session issuance.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	AdminUsers []config.AdminUser
}

// AuthService authenticates configured admins and portal accounts and
// issues session tokens.
type AuthService struct {
	users     authUserRepository
	roles     authRoleRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, roles authRoleRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger, cfg AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{users: users, roles: roles, audit: audit, validator: validate, logger: logger, config: cfg}
}

// Login authenticates a user and returns an issued session token.
// Configured admins take precedence over portal accounts with the same name.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	if admin, ok := s.matchAdmin(req.Username, req.Password); ok != adminNoMatch {
		if ok == adminBadSecret {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
		}
		return s.issueSession(ctx, admin, models.RoleAdministrator, models.AllPermissions, req)
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	if !user.PortalEnabled {
		return nil, appErrors.Clone(appErrors.ErrAccountBlocked, "portal access is blocked for this account")
	}

	permissions := []string{}
	if role, err := s.roles.FindByName(ctx, user.Role); err == nil {
		permissions = append(permissions, role.Permissions...)
	} else if !errors.Is(err, repository.ErrNoRecord) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role")
	}

	return s.issueSession(ctx, user.Username, user.Role, permissions, req)
}

// ValidateToken parses and validates a session token returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}
	return claims, nil
}

func (s *AuthService) issueSession(ctx context.Context, username, role string, permissions []string, req models.LoginRequest) (*models.LoginResponse, error) {
	issuedAt := time.Now().UTC()
	claims := &models.SessionClaims{
		Username:    username,
		Role:        role,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}

	if s.audit != nil {
		if err := s.audit.Append(ctx, &models.AuditEntry{
			Username:  username,
			Action:    models.AuditActionLogin,
			Resource:  "auth",
			Detail:    "session issued for role " + role,
			IPAddress: req.IP,
		}); err != nil {
			s.logger.Warn("failed to record login audit entry", zap.Error(err))
		}
	}

	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		IssuedAt:    issuedAt,
		User: models.UserInfo{
			Username:    username,
			Role:        role,
			Permissions: permissions,
		},
	}, nil
}

type adminMatch int

const (
	adminNoMatch adminMatch = iota
	adminBadSecret
	adminOK
)

// matchAdmin checks the statically configured admin credentials. Secrets
// starting with "$2" are bcrypt hashes, anything else compares in constant
// time as plaintext.
func (s *AuthService) matchAdmin(username, password string) (string, adminMatch) {
	for _, admin := range s.config.AdminUsers {
		if admin.Username != username {
			continue
		}
		if strings.HasPrefix(admin.Secret, "$2") {
			if bcrypt.CompareHashAndPassword([]byte(admin.Secret), []byte(password)) != nil {
				return "", adminBadSecret
			}
		} else if subtle.ConstantTimeCompare([]byte(admin.Secret), []byte(password)) != 1 {
			return "", adminBadSecret
		}
		return admin.Username, adminOK
	}
	return "", adminNoMatch
}
