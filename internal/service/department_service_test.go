package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

func newDepartmentService(t *testing.T) (*DepartmentService, *stubAudit) {
	t.Helper()
	store, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	audit := &stubAudit{}
	return NewDepartmentService(repository.NewDepartmentRepository(store), audit, nil, nil), audit
}

func TestDepartmentServiceCreateGeneratesJoinToken(t *testing.T) {
	svc, _ := newDepartmentService(t)

	department, err := svc.Create(context.Background(), models.DepartmentInput{Name: "Redação", Director: "Helena"})
	require.NoError(t, err)
	assert.NotEmpty(t, department.JoinToken)

	info, err := svc.ResolveJoinLink(context.Background(), department.JoinToken)
	require.NoError(t, err)
	assert.Equal(t, "Redação", info.Name)
	assert.Zero(t, info.Members)

	_, err = svc.ResolveJoinLink(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidLink.Code, appErrors.FromError(err).Code)
}

func TestDepartmentServiceQueueApprovalAddsMember(t *testing.T) {
	svc, audit := newDepartmentService(t)

	department, err := svc.Create(context.Background(), models.DepartmentInput{Name: "Fotografia"})
	require.NoError(t, err)

	request, err := svc.Apply(context.Background(), department.JoinToken, models.JoinApplication{
		Name:        "Ana",
		DesiredRole: "Fotógrafa",
		Motivation:  "Quero cobrir os jogos",
	})
	require.NoError(t, err)
	assert.Equal(t, models.JoinRequestPending, request.Status)

	decided, err := svc.DecideQueue(context.Background(), department.ID, request.ID, true, "diretor")
	require.NoError(t, err)
	require.Len(t, decided.Members, 1)
	assert.Equal(t, "Ana", decided.Members[0].Name)
	assert.Equal(t, "Fotógrafa", decided.Members[0].Role)
	assert.Equal(t, models.JoinRequestApproved, decided.Queue[0].Status)
	require.Len(t, audit.entries, 1)

	_, err = svc.DecideQueue(context.Background(), department.ID, request.ID, false, "diretor")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyDecided.Code, appErrors.FromError(err).Code)
}

func TestDepartmentServiceQueueRejectionKeepsMembers(t *testing.T) {
	svc, _ := newDepartmentService(t)

	department, err := svc.Create(context.Background(), models.DepartmentInput{Name: "Esportes"})
	require.NoError(t, err)

	request, err := svc.Apply(context.Background(), department.JoinToken, models.JoinApplication{Name: "Beto"})
	require.NoError(t, err)

	decided, err := svc.DecideQueue(context.Background(), department.ID, request.ID, false, "diretor")
	require.NoError(t, err)
	assert.Empty(t, decided.Members)
	assert.Equal(t, models.JoinRequestRejected, decided.Queue[0].Status)
	assert.Equal(t, "diretor", decided.Queue[0].DecidedBy)
}

func TestDepartmentServiceDecideUnknownRequest(t *testing.T) {
	svc, _ := newDepartmentService(t)

	department, err := svc.Create(context.Background(), models.DepartmentInput{Name: "Cultura"})
	require.NoError(t, err)

	_, err = svc.DecideQueue(context.Background(), department.ID, "ghost", true, "diretor")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
