package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

func newStudentService(t *testing.T) *StudentService {
	t.Helper()
	store, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	return NewStudentService(repository.NewStudentRepository(store), nil, nil)
}

func TestStudentServiceCreateEnablesPortal(t *testing.T) {
	svc := newStudentService(t)

	student, err := svc.Create(context.Background(), models.StudentInput{Name: "Bianca", Role: "Repórter"})
	require.NoError(t, err)
	assert.True(t, student.PortalEnabled)
	assert.NotEmpty(t, student.ID)
}

func TestStudentServiceCreateRequiresName(t *testing.T) {
	svc := newStudentService(t)

	_, err := svc.Create(context.Background(), models.StudentInput{Role: "Repórter"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceTogglePortal(t *testing.T) {
	svc := newStudentService(t)

	student, err := svc.Create(context.Background(), models.StudentInput{Name: "Caio"})
	require.NoError(t, err)

	toggled, err := svc.TogglePortal(context.Background(), student.ID)
	require.NoError(t, err)
	assert.False(t, toggled.PortalEnabled)

	toggled, err = svc.TogglePortal(context.Background(), student.ID)
	require.NoError(t, err)
	assert.True(t, toggled.PortalEnabled)

	_, err = svc.TogglePortal(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceExportCSV(t *testing.T) {
	svc := newStudentService(t)

	_, err := svc.Create(context.Background(), models.StudentInput{Name: "Bianca", Role: "Repórter", Contact: "bianca@escola.br"})
	require.NoError(t, err)

	payload, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	body := string(payload)
	assert.True(t, strings.Contains(body, "Nome"))
	assert.True(t, strings.Contains(body, "Bianca"))
}

func TestStudentServiceExportPDF(t *testing.T) {
	svc := newStudentService(t)

	_, err := svc.Create(context.Background(), models.StudentInput{Name: "Caio"})
	require.NoError(t, err)

	payload, err := svc.ExportPDF(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}
