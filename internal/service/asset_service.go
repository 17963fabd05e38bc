package service

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

type assetRepository interface {
	List(ctx context.Context) ([]models.Asset, error)
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	Create(ctx context.Context, asset *models.Asset) error
}

// AssetService manages the internal shared-file area.
type AssetService struct {
	repo      assetRepository
	files     fileStorage
	policy    UploadPolicy
	validator *validator.Validate
	logger    *zap.Logger
	uploads   func(bytes int64)
}

// SetUploadObserver registers a callback invoked with the byte size of every
// stored shared file.
func (s *AssetService) SetUploadObserver(obs func(bytes int64)) {
	s.uploads = obs
}

// NewAssetService constructs an AssetService instance.
func NewAssetService(repo assetRepository, files fileStorage, maxBytes int64, validate *validator.Validate, logger *zap.Logger) *AssetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssetService{
		repo:      repo,
		files:     files,
		policy:    UploadPolicy{MaxBytes: maxBytes, Extensions: AssetUploadExtensions},
		validator: validate,
		logger:    logger,
	}
}

// List returns every shared file, newest upload first.
func (s *AssetService) List(ctx context.Context) ([]models.Asset, error) {
	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets")
	}
	return assets, nil
}

// Upload validates and stores a new shared file owned by the caller.
func (s *AssetService) Upload(ctx context.Context, input models.AssetInput, owner, filename string, size int64, file io.Reader) (*models.Asset, error) {
	if err := s.policy.Validate(filename, size); err != nil {
		return nil, err
	}

	stored, err := s.files.SaveStream(storedFilename(filename), file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store asset file")
	}

	scope := models.AssetScopePersonal
	if input.DepartmentID != "" {
		scope = models.AssetScopeDepartment
	}

	asset := &models.Asset{
		ID:           uuid.NewString(),
		OriginalName: filename,
		StoredName:   stored,
		Notes:        input.Notes,
		Owner:        owner,
		DepartmentID: input.DepartmentID,
		Scope:        scope,
		UploadedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, asset); err != nil {
		if removeErr := s.files.Delete(stored); removeErr != nil {
			s.logger.Warn("failed to remove orphaned asset file", zap.String("file", stored), zap.Error(removeErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist asset")
	}
	if s.uploads != nil {
		s.uploads(size)
	}
	return asset, nil
}

// OpenFile opens a stored asset for an authenticated download.
func (s *AssetService) OpenFile(ctx context.Context, id string) (*models.Asset, *os.File, error) {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "asset not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load asset")
	}
	file, err := s.files.Open(asset.StoredName)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open asset file")
	}
	return asset, file, nil
}
