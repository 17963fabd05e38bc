package repository

import (
	"context"
	"sort"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const assetsDocument = "assets"

// AssetRepository provides persistence for shared file metadata.
type AssetRepository struct {
	store *docstore.Store
}

// NewAssetRepository creates the repository.
func NewAssetRepository(store *docstore.Store) *AssetRepository {
	return &AssetRepository{store: store}
}

// List returns assets, newest upload first.
func (r *AssetRepository) List(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	if err := r.store.Load(assetsDocument, &assets); err != nil {
		return nil, err
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].UploadedAt.After(assets[j].UploadedAt)
	})
	return assets, nil
}

// GetByID returns an asset by identifier.
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	var assets []models.Asset
	if err := r.store.Load(assetsDocument, &assets); err != nil {
		return nil, err
	}
	for i := range assets {
		if assets[i].ID == id {
			asset := assets[i]
			return &asset, nil
		}
	}
	return nil, ErrNoRecord
}

// Create appends a new asset record.
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	var assets []models.Asset
	return r.store.Update(assetsDocument, &assets, func() error {
		assets = append(assets, *asset)
		return nil
	})
}
