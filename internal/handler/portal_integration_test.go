package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornal-escolar/portal-api/internal/middleware"
	"github.com/jornal-escolar/portal-api/internal/repository"
	"github.com/jornal-escolar/portal-api/internal/service"
	"github.com/jornal-escolar/portal-api/pkg/config"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
	"github.com/jornal-escolar/portal-api/pkg/storage"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newPortalRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	journalFiles, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	assetFiles, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("integration-secret", time.Hour)

	userRepo := repository.NewUserRepository(store)
	roleRepo, err := repository.NewRoleRepository(store)
	require.NoError(t, err)
	auditRepo := repository.NewAuditRepository(store)

	authCfg := service.AuthConfig{
		Secret:     "integration-secret",
		Expiration: time.Hour,
		AdminUsers: []config.AdminUser{{Username: "root", Secret: "chave"}},
	}
	authSvc := service.NewAuthService(userRepo, roleRepo, auditRepo, nil, nil, authCfg)

	const maxUpload = 1 << 20

	handlers := Handlers{
		Auth:          NewAuthHandler(authSvc, "portal_session", 3600, false),
		Students:      NewStudentHandler(service.NewStudentService(repository.NewStudentRepository(store), nil, nil)),
		Journals:      NewJournalHandler(service.NewJournalService(repository.NewJournalRepository(store), journalFiles, signer, auditRepo, maxUpload, nil, nil), "http://portal.test"),
		Assets:        NewAssetHandler(service.NewAssetService(repository.NewAssetRepository(store), assetFiles, maxUpload, nil, nil)),
		Departments:   NewDepartmentHandler(service.NewDepartmentService(repository.NewDepartmentRepository(store), auditRepo, nil, nil)),
		Tickets:       NewTicketHandler(service.NewTicketService(repository.NewTicketRepository(store), auditRepo, nil, nil)),
		Announcements: NewAnnouncementHandler(service.NewAnnouncementService(repository.NewAnnouncementRepository(store), nil, nil)),
		Calendar:      NewCalendarHandler(service.NewCalendarService(repository.NewCalendarRepository(store), nil, nil)),
		Rules:         NewRulesHandler(service.NewRulesService(repository.NewRulesRepository(store), nil)),
		Settings:      NewSettingsHandler(service.NewSettingsService(repository.NewSettingsRepository(store), nil, nil)),
		Dashboard: NewDashboardHandler(service.NewDashboardService(
			repository.NewSettingsRepository(store),
			repository.NewStudentRepository(store),
			repository.NewTicketRepository(store),
			repository.NewDepartmentRepository(store),
			repository.NewCalendarRepository(store),
			nil,
		)),
		Users: NewUserHandler(service.NewUserService(userRepo, roleRepo, auditRepo, nil, nil)),
		Roles: NewRoleHandler(service.NewRoleService(roleRepo, nil, nil)),
		Audit: NewAuditHandler(auditRepo),
	}

	router := gin.New()
	handlers.Register(router, "/api/v1", middleware.Session(authSvc, "portal_session"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func loginAs(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(t, result.AccessToken)
	return result.AccessToken
}

func submitJournalRequest(t *testing.T, router *gin.Engine, token string) envelope {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", "Edição 12"))
	require.NoError(t, writer.WriteField("edition", "12"))
	require.NoError(t, writer.WriteField("release_date", "2026-09-01"))
	part, err := writer.CreateFormFile("file", "edicao-12.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/journals", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestPortalRequiresSession(t *testing.T) {
	router := newPortalRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPortalAdminLoginAndWrongPassword(t *testing.T) {
	router := newPortalRouter(t)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "root",
		"password": "errada",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	token := loginAs(t, router, "root", "chave")
	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPortalApprovalFlow(t *testing.T) {
	router := newPortalRouter(t)
	token := loginAs(t, router, "root", "chave")

	env := submitJournalRequest(t, router, token)
	var journal struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		ApprovalURL string `json:"approval_url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &journal))
	assert.Equal(t, "PENDING", journal.Status)
	require.NotEmpty(t, journal.ApprovalURL)

	approvalToken := journal.ApprovalURL[len("http://portal.test/approvals/"):]

	// public page, no session
	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/approvals/"+approvalToken, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// reject without reason fails
	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/approvals/"+approvalToken, "", map[string]string{"action": "reject"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// approve
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/approvals/"+approvalToken, "", map[string]string{"action": "approve"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// second decision conflicts
	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/approvals/"+approvalToken, "", map[string]string{"action": "approve"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_DECIDED", env.Error.Code)

	// signed public download
	rec, env = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/journals/%s/share", journal.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var share struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &share))
	downloadToken := share.URL[len("http://portal.test/downloads/"):]

	req := httptest.NewRequest(http.MethodGet, "/api/v1/downloads/"+downloadToken, nil)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.Contains(t, rec2.Body.String(), "%PDF")
}

func TestPortalJoinFlow(t *testing.T) {
	router := newPortalRouter(t)
	token := loginAs(t, router, "root", "chave")

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/departments", token, map[string]string{
		"name":     "Fotografia",
		"director": "Helena",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var department struct {
		ID        string `json:"id"`
		JoinToken string `json:"join_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &department))

	// public join info and application, no session
	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/join/"+department.JoinToken, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/join/"+department.JoinToken, "", map[string]string{
		"name":         "Ana",
		"desired_role": "Fotógrafa",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var request struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &request))

	rec, env = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/departments/%s/queue/%s", department.ID, request.ID), token,
		map[string]string{"action": "approve"})
	require.Equal(t, http.StatusOK, rec.Code)
	var decided struct {
		Members []struct {
			Name string `json:"name"`
		} `json:"members"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &decided))
	require.Len(t, decided.Members, 1)
	assert.Equal(t, "Ana", decided.Members[0].Name)

	rec, env = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/departments/%s/queue/%s", department.ID, request.ID), token,
		map[string]string{"action": "reject"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_DECIDED", env.Error.Code)
}

func TestPortalPermissionDenied(t *testing.T) {
	router := newPortalRouter(t)
	admin := loginAs(t, router, "root", "chave")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/users", admin, map[string]string{
		"name":     "Colaborador Um",
		"username": "colab",
		"password": "senha123",
		"role":     "Colaborador",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	colab := loginAs(t, router, "colab", "senha123")

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/students", colab, map[string]string{"name": "Novo"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/students", colab, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPortalBlockedUserLogin(t *testing.T) {
	router := newPortalRouter(t)
	admin := loginAs(t, router, "root", "chave")

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/users", admin, map[string]string{
		"name":     "Bloqueado",
		"username": "bloq",
		"password": "senha123",
		"role":     "Colaborador",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/users/"+user.ID+"/toggle", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "bloq",
		"password": "senha123",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ACCOUNT_BLOCKED", env.Error.Code)
}

func TestPortalRoleChangeRequiresRolePermission(t *testing.T) {
	router := newPortalRouter(t)
	admin := loginAs(t, router, "root", "chave")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/roles", admin, map[string]interface{}{
		"name":        "Secretaria",
		"description": "Gerencia contas",
		"permissions": []string{"manage_users"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/users", admin, map[string]string{
		"name":     "Secretária",
		"username": "sec",
		"password": "senha123",
		"role":     "Secretaria",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var target struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &target))

	sec := loginAs(t, router, "sec", "senha123")

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/users", sec, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPut, "/api/v1/users/"+target.ID+"/role", sec, map[string]string{"role": "Colaborador"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPut, "/api/v1/users/"+target.ID+"/role", admin, map[string]string{"role": "Colaborador"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
