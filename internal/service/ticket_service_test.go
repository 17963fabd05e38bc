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

var (
	managerClaims = &models.SessionClaims{
		Username:    "gerente",
		Role:        "Gerente",
		Permissions: []string{models.PermManageTickets},
	}
	memberClaims = &models.SessionClaims{
		Username: "colab",
		Role:     "Colaborador",
	}
	otherClaims = &models.SessionClaims{
		Username: "outra",
		Role:     "Colaborador",
	}
)

func newTicketService(t *testing.T) (*TicketService, *stubAudit) {
	t.Helper()
	store, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	audit := &stubAudit{}
	return NewTicketService(repository.NewTicketRepository(store), audit, nil, nil), audit
}

func openTicket(t *testing.T, svc *TicketService, claims *models.SessionClaims) *models.Ticket {
	t.Helper()
	ticket, err := svc.Create(context.Background(), claims, models.TicketInput{
		Title:   "Sem acesso ao drive",
		Reason:  "Problema técnico",
		Urgency: "alta",
		Message: "Não consigo abrir a pasta da edição.",
	})
	require.NoError(t, err)
	return ticket
}

func TestTicketServiceCreateWithCustomReason(t *testing.T) {
	svc, _ := newTicketService(t)

	_, err := svc.Create(context.Background(), memberClaims, models.TicketInput{
		Title:   "Outro assunto",
		Reason:  "Outro",
		Message: "detalhes",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	ticket, err := svc.Create(context.Background(), memberClaims, models.TicketInput{
		Title:        "Outro assunto",
		Reason:       "Outro",
		CustomReason: "Crachá extraviado",
		Message:      "detalhes",
	})
	require.NoError(t, err)
	assert.Equal(t, "Crachá extraviado", ticket.Reason)

	_, err = svc.Create(context.Background(), memberClaims, models.TicketInput{
		Title:   "Assunto",
		Reason:  "Motivo inventado",
		Message: "detalhes",
	})
	require.Error(t, err)
}

func TestTicketServiceVisibility(t *testing.T) {
	svc, _ := newTicketService(t)
	ticket := openTicket(t, svc, memberClaims)

	mine, err := svc.List(context.Background(), memberClaims)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	others, err := svc.List(context.Background(), otherClaims)
	require.NoError(t, err)
	assert.Empty(t, others)

	all, err := svc.List(context.Background(), managerClaims)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = svc.Get(context.Background(), otherClaims, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestTicketServiceManagerReplyReopensClosed(t *testing.T) {
	svc, _ := newTicketService(t)
	ticket := openTicket(t, svc, memberClaims)

	closed, err := svc.Close(context.Background(), memberClaims, ticket.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusClosed, closed.Status)

	_, err = svc.Reply(context.Background(), memberClaims, ticket.ID, models.TicketReplyInput{Body: "alguém?"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	reopened, err := svc.Reply(context.Background(), managerClaims, ticket.ID, models.TicketReplyInput{Body: "reabrindo para verificar"})
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusOpen, reopened.Status)
	assert.Equal(t, "gerente", reopened.Messages[len(reopened.Messages)-1].Author)
}

func TestTicketServiceDeleteManagersOnly(t *testing.T) {
	svc, audit := newTicketService(t)
	ticket := openTicket(t, svc, memberClaims)

	err := svc.Delete(context.Background(), memberClaims, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), managerClaims, ticket.ID))
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionTicketDelete, audit.entries[0].Action)

	_, err = svc.Get(context.Background(), managerClaims, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
