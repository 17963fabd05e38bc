package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	"github.com/jornal-escolar/portal-api/pkg/config"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

type stubUserRepo struct {
	users map[string]*models.User
}

func (s *stubUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := s.users[username]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, repository.ErrNoRecord
}

type stubRoleRepo struct {
	roles map[string]*models.Role
}

func (s *stubRoleRepo) FindByName(_ context.Context, name string) (*models.Role, error) {
	if r, ok := s.roles[name]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, repository.ErrNoRecord
}

type stubAudit struct {
	entries []models.AuditEntry
}

func (s *stubAudit) Append(_ context.Context, entry *models.AuditEntry) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(t *testing.T, users *stubUserRepo, roles *stubRoleRepo, admins []config.AdminUser) (*AuthService, *stubAudit) {
	t.Helper()
	audit := &stubAudit{}
	svc := NewAuthService(users, roles, audit, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		AdminUsers: admins,
	})
	return svc, audit
}

func TestAuthServiceLoginPortalUser(t *testing.T) {
	users := &stubUserRepo{users: map[string]*models.User{
		"maria": {Username: "maria", Role: "Gerente", PasswordHash: mustHash(t, "segredo"), PortalEnabled: true},
	}}
	roles := &stubRoleRepo{roles: map[string]*models.Role{
		"Gerente": {Name: "Gerente", Permissions: []string{models.PermManageStudents}},
	}}
	svc, audit := newAuthService(t, users, roles, nil)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "maria", Password: "segredo"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Gerente", resp.User.Role)
	assert.Contains(t, resp.User.Permissions, models.PermManageStudents)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionLogin, audit.entries[0].Action)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "maria", claims.Username)
	assert.True(t, claims.HasPermission(models.PermManageStudents))
}

func TestAuthServiceLoginBlockedUser(t *testing.T) {
	users := &stubUserRepo{users: map[string]*models.User{
		"pedro": {Username: "pedro", Role: "Colaborador", PasswordHash: mustHash(t, "senha"), PortalEnabled: false},
	}}
	svc, _ := newAuthService(t, users, &stubRoleRepo{}, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "pedro", Password: "senha"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAccountBlocked.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	users := &stubUserRepo{users: map[string]*models.User{
		"maria": {Username: "maria", PasswordHash: mustHash(t, "segredo"), PortalEnabled: true},
	}}
	svc, _ := newAuthService(t, users, &stubRoleRepo{}, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "maria", Password: "errada"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginAdminPlaintext(t *testing.T) {
	svc, _ := newAuthService(t, &stubUserRepo{}, &stubRoleRepo{}, []config.AdminUser{
		{Username: "root", Secret: "chave"},
	})

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "root", Password: "chave"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdministrator, resp.User.Role)
	assert.ElementsMatch(t, models.AllPermissions, resp.User.Permissions)
}

func TestAuthServiceLoginAdminBcrypt(t *testing.T) {
	svc, _ := newAuthService(t, &stubUserRepo{}, &stubRoleRepo{}, []config.AdminUser{
		{Username: "root", Secret: mustHash(t, "chave")},
	})

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "root", Password: "chave"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "root", Password: "outra"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	svc, _ := newAuthService(t, &stubUserRepo{}, &stubRoleRepo{}, []config.AdminUser{
		{Username: "root", Secret: "chave"},
	})

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "root", Password: "chave"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
