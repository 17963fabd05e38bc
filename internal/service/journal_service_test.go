package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
	"github.com/jornal-escolar/portal-api/pkg/storage"
)

func newJournalService(t *testing.T) (*JournalService, *stubAudit) {
	t.Helper()
	store, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	audit := &stubAudit{}
	return NewJournalService(repository.NewJournalRepository(store), files, signer, audit, 1<<20, nil, nil), audit
}

func submitJournal(t *testing.T, svc *JournalService) *models.Journal {
	t.Helper()
	journal, err := svc.Submit(context.Background(), models.JournalSubmission{
		Title:       "Edição de Março",
		Edition:     "12",
		ReleaseDate: "2026-03-01",
	}, "edicao.pdf", 6, bytes.NewReader([]byte("%PDF-1")))
	require.NoError(t, err)
	return journal
}

func TestJournalServiceSubmitCreatesPending(t *testing.T) {
	svc, _ := newJournalService(t)
	journal := submitJournal(t, svc)

	assert.Equal(t, models.JournalStatusPending, journal.Status)
	assert.NotEmpty(t, journal.ApprovalToken)
	assert.NotEmpty(t, journal.File)

	found, err := svc.FindByToken(context.Background(), journal.ApprovalToken)
	require.NoError(t, err)
	assert.Equal(t, journal.ID, found.ID)
}

func TestJournalServiceSubmitRejectsBadUpload(t *testing.T) {
	svc, _ := newJournalService(t)

	_, err := svc.Submit(context.Background(), models.JournalSubmission{
		Title:       "Edição",
		Edition:     "1",
		ReleaseDate: "2026-03-01",
	}, "edicao.exe", 6, bytes.NewReader([]byte("MZ")))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestJournalServiceApproveIsTerminal(t *testing.T) {
	svc, audit := newJournalService(t)
	journal := submitJournal(t, svc)

	decided, err := svc.Approve(context.Background(), journal.ApprovalToken, "diretor")
	require.NoError(t, err)
	assert.Equal(t, models.JournalStatusApproved, decided.Status)
	require.NotNil(t, decided.DecidedAt)
	require.Len(t, audit.entries, 1)

	_, err = svc.Approve(context.Background(), journal.ApprovalToken, "diretor")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyDecided.Code, appErrors.FromError(err).Code)

	_, err = svc.Reject(context.Background(), journal.ApprovalToken, "diretor", "mudei de ideia")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyDecided.Code, appErrors.FromError(err).Code)
}

func TestJournalServiceRejectRequiresJustification(t *testing.T) {
	svc, _ := newJournalService(t)
	journal := submitJournal(t, svc)

	_, err := svc.Reject(context.Background(), journal.ApprovalToken, "diretor", "  ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	decided, err := svc.Reject(context.Background(), journal.ApprovalToken, "diretor", "capa fora do padrão")
	require.NoError(t, err)
	assert.Equal(t, models.JournalStatusRejected, decided.Status)
	assert.Equal(t, "capa fora do padrão", decided.RejectReason)
}

func TestJournalServiceResubmitOnlyAfterRejection(t *testing.T) {
	svc, _ := newJournalService(t)
	journal := submitJournal(t, svc)

	_, err := svc.Resubmit(context.Background(), journal.ID, models.JournalSubmission{
		Title:       "Edição revisada",
		Edition:     "12",
		ReleaseDate: "2026-03-08",
	}, "edicao-v2.pdf", 6, bytes.NewReader([]byte("%PDF-1")))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = svc.Reject(context.Background(), journal.ApprovalToken, "diretor", "refazer capa")
	require.NoError(t, err)

	next, err := svc.Resubmit(context.Background(), journal.ID, models.JournalSubmission{
		Title:       "Edição revisada",
		Edition:     "12",
		ReleaseDate: "2026-03-08",
	}, "edicao-v2.pdf", 6, bytes.NewReader([]byte("%PDF-1")))
	require.NoError(t, err)
	assert.Equal(t, journal.ID, next.PreviousID)
	assert.Equal(t, models.JournalStatusPending, next.Status)
	assert.NotEqual(t, journal.ApprovalToken, next.ApprovalToken)
}

func TestJournalServiceSignedDownload(t *testing.T) {
	svc, _ := newJournalService(t)
	journal := submitJournal(t, svc)

	_, _, err := svc.SignedDownload(context.Background(), journal.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.Approve(context.Background(), journal.ApprovalToken, "diretor")
	require.NoError(t, err)

	token, expiresAt, err := svc.SignedDownload(context.Background(), journal.ID)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	resolved, file, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, journal.ID, resolved.ID)

	_, _, err = svc.ResolveDownload(context.Background(), token+"x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidLink.Code, appErrors.FromError(err).Code)
}

func TestJournalServiceUploadObserverCountsStoredBytes(t *testing.T) {
	svc, _ := newJournalService(t)
	metrics := NewMetricsService()
	svc.SetUploadObserver(metrics.ObserveUpload)

	submitJournal(t, svc)
	assert.Equal(t, float64(6), testutil.ToFloat64(metrics.uploadBytes))

	_, err := svc.Submit(context.Background(), models.JournalSubmission{
		Title:       "Edição",
		Edition:     "2",
		ReleaseDate: "2026-04-01",
	}, "capa.exe", 6, bytes.NewReader([]byte("MZ")))
	require.Error(t, err)
	assert.Equal(t, float64(6), testutil.ToFloat64(metrics.uploadBytes))

	store, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	assets := NewAssetService(repository.NewAssetRepository(store), files, 1<<20, nil, nil)
	assets.SetUploadObserver(metrics.ObserveUpload)

	_, err = assets.Upload(context.Background(), models.AssetInput{Notes: "pauta"}, "ana", "pauta.txt", 4, bytes.NewReader([]byte("ok\n\n")))
	require.NoError(t, err)
	assert.Equal(t, float64(10), testutil.ToFloat64(metrics.uploadBytes))
}
