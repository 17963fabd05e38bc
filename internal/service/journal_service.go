package service

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
	"github.com/jornal-escolar/portal-api/pkg/storage"
)

type journalRepository interface {
	List(ctx context.Context) ([]models.Journal, error)
	GetByID(ctx context.Context, id string) (*models.Journal, error)
	FindByToken(ctx context.Context, token string) (*models.Journal, error)
	Create(ctx context.Context, journal *models.Journal) error
	UpdateByToken(ctx context.Context, token string, mutate func(*models.Journal) error) (*models.Journal, error)
}

type fileStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

// JournalService runs the issue submission and approval workflow.
type JournalService struct {
	repo      journalRepository
	files     fileStorage
	signer    *storage.SignedURLSigner
	audit     auditRecorder
	policy    UploadPolicy
	validator *validator.Validate
	logger    *zap.Logger
	uploads   func(bytes int64)
}

// SetUploadObserver registers a callback invoked with the byte size of every
// stored issue file.
func (s *JournalService) SetUploadObserver(obs func(bytes int64)) {
	s.uploads = obs
}

// NewJournalService constructs a JournalService instance.
func NewJournalService(repo journalRepository, files fileStorage, signer *storage.SignedURLSigner, audit auditRecorder, maxBytes int64, validate *validator.Validate, logger *zap.Logger) *JournalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &JournalService{
		repo:      repo,
		files:     files,
		signer:    signer,
		audit:     audit,
		policy:    UploadPolicy{MaxBytes: maxBytes, Extensions: JournalUploadExtensions},
		validator: validate,
		logger:    logger,
	}
}

// List returns every submitted issue, newest release first.
func (s *JournalService) List(ctx context.Context) ([]models.Journal, error) {
	journals, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list journals")
	}
	return journals, nil
}

// Get returns a single issue by ID.
func (s *JournalService) Get(ctx context.Context, id string) (*models.Journal, error) {
	journal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "journal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load journal")
	}
	return journal, nil
}

// Submit stores the uploaded PDF and creates a pending issue with a fresh
// approval token.
func (s *JournalService) Submit(ctx context.Context, sub models.JournalSubmission, filename string, size int64, file io.Reader) (*models.Journal, error) {
	return s.create(ctx, sub, filename, size, file, "")
}

// Resubmit creates a new pending issue that supersedes a rejected one.
func (s *JournalService) Resubmit(ctx context.Context, previousID string, sub models.JournalSubmission, filename string, size int64, file io.Reader) (*models.Journal, error) {
	previous, err := s.Get(ctx, previousID)
	if err != nil {
		return nil, err
	}
	if previous.Status != models.JournalStatusRejected {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only rejected journals can be resubmitted")
	}
	return s.create(ctx, sub, filename, size, file, previous.ID)
}

func (s *JournalService) create(ctx context.Context, sub models.JournalSubmission, filename string, size int64, file io.Reader, previousID string) (*models.Journal, error) {
	if err := s.validator.Struct(sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid journal submission")
	}
	if err := s.policy.Validate(filename, size); err != nil {
		return nil, err
	}

	stored, err := s.files.SaveStream(storedFilename(filename), file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store journal file")
	}

	journal := &models.Journal{
		ID:            uuid.NewString(),
		Title:         sub.Title,
		Edition:       sub.Edition,
		ReleaseDate:   sub.ReleaseDate,
		Description:   sub.Description,
		File:          stored,
		Status:        models.JournalStatusPending,
		ApprovalToken: uuid.NewString(),
		PreviousID:    previousID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, journal); err != nil {
		if removeErr := s.files.Delete(stored); removeErr != nil {
			s.logger.Warn("failed to remove orphaned journal file", zap.String("file", stored), zap.Error(removeErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist journal")
	}
	if s.uploads != nil {
		s.uploads(size)
	}
	return journal, nil
}

// FindByToken resolves the issue behind an approval link.
func (s *JournalService) FindByToken(ctx context.Context, token string) (*models.Journal, error) {
	journal, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrInvalidLink, "approval link is invalid or no longer active")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve approval link")
	}
	return journal, nil
}

// Approve marks a pending issue as approved. A decided issue stays decided.
func (s *JournalService) Approve(ctx context.Context, token, decidedBy string) (*models.Journal, error) {
	return s.decide(ctx, token, decidedBy, models.JournalStatusApproved, "")
}

// Reject marks a pending issue as rejected. The justification is mandatory.
func (s *JournalService) Reject(ctx context.Context, token, decidedBy, reason string) (*models.Journal, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a justification is required to reject an issue")
	}
	return s.decide(ctx, token, decidedBy, models.JournalStatusRejected, reason)
}

func (s *JournalService) decide(ctx context.Context, token, decidedBy string, status models.JournalStatus, reason string) (*models.Journal, error) {
	journal, err := s.repo.UpdateByToken(ctx, token, func(j *models.Journal) error {
		if j.Status.Terminal() {
			return appErrors.Clone(appErrors.ErrAlreadyDecided, "this issue was already decided")
		}
		now := time.Now().UTC()
		j.Status = status
		j.RejectReason = reason
		j.DecidedAt = &now
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrInvalidLink, "approval link is invalid or no longer active")
		}
		return nil, err
	}

	if s.audit != nil {
		if auditErr := s.audit.Append(ctx, &models.AuditEntry{
			Username:   decidedBy,
			Action:     models.AuditActionJournalDecision,
			Resource:   "journals",
			ResourceID: journal.ID,
			Detail:     string(status),
		}); auditErr != nil {
			s.logger.Warn("failed to record journal decision", zap.Error(auditErr))
		}
	}
	return journal, nil
}

// SignedDownload issues a time-limited public download token for an
// approved issue's PDF.
func (s *JournalService) SignedDownload(ctx context.Context, id string) (string, time.Time, error) {
	journal, err := s.Get(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	if journal.Status != models.JournalStatusApproved {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrForbidden, "only approved issues can be shared publicly")
	}
	token, expiresAt, err := s.signer.Generate(journal.ID, journal.File)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return token, expiresAt, nil
}

// ResolveDownload verifies a signed token and opens the backing file.
func (s *JournalService) ResolveDownload(ctx context.Context, token string) (*models.Journal, *os.File, error) {
	recordID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidLink, "download link is invalid or expired")
	}

	journal, err := s.Get(ctx, recordID)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidLink, "download link is invalid or expired")
	}
	if journal.File != relPath || journal.Status != models.JournalStatusApproved {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidLink, "download link is invalid or expired")
	}

	file, err := s.files.Open(journal.File)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open journal file")
	}
	return journal, file, nil
}

// OpenFile opens the stored PDF for an authenticated download.
func (s *JournalService) OpenFile(ctx context.Context, id string) (*models.Journal, *os.File, error) {
	journal, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if journal.File == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "journal has no file attached")
	}
	file, err := s.files.Open(journal.File)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open journal file")
	}
	return journal, file, nil
}
