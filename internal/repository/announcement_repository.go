package repository

import (
	"context"
	"sort"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const announcementsDocument = "announcements"

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	store *docstore.Store
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(store *docstore.Store) *AnnouncementRepository {
	return &AnnouncementRepository{store: store}
}

// List returns announcements, pinned first, then newest first.
func (r *AnnouncementRepository) List(ctx context.Context) ([]models.Announcement, error) {
	var announcements []models.Announcement
	if err := r.store.Load(announcementsDocument, &announcements); err != nil {
		return nil, err
	}
	sort.Slice(announcements, func(i, j int) bool {
		if announcements[i].Pinned != announcements[j].Pinned {
			return announcements[i].Pinned
		}
		return announcements[i].CreatedAt.After(announcements[j].CreatedAt)
	})
	return announcements, nil
}

// Create appends a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	var announcements []models.Announcement
	return r.store.Update(announcementsDocument, &announcements, func() error {
		announcements = append(announcements, *announcement)
		return nil
	})
}

// Delete removes an announcement permanently.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	var announcements []models.Announcement
	return r.store.Update(announcementsDocument, &announcements, func() error {
		for i := range announcements {
			if announcements[i].ID == id {
				announcements = append(announcements[:i], announcements[i+1:]...)
				return nil
			}
		}
		return ErrNoRecord
	})
}
