package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const usersDocument = "users"

// UserRepository provides persistence for portal accounts.
type UserRepository struct {
	store *docstore.Store
}

// NewUserRepository creates the repository.
func NewUserRepository(store *docstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

// List returns all portal accounts sorted by display name.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.store.Load(usersDocument, &users); err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
	})
	return users, nil
}

// FindByUsername returns the account with the given login name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var users []models.User
	if err := r.store.Load(usersDocument, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			user := users[i]
			return &user, nil
		}
	}
	return nil, ErrNoRecord
}

// Create appends a new account. Returns ErrDuplicate when the username is
// already taken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	var users []models.User
	return r.store.Update(usersDocument, &users, func() error {
		for i := range users {
			if users[i].Username == user.Username {
				return ErrDuplicate
			}
		}
		users = append(users, *user)
		return nil
	})
}

// Update applies mutate to the account with the given id under the document
// lock and returns the updated copy.
func (r *UserRepository) Update(ctx context.Context, id string, mutate func(*models.User) error) (*models.User, error) {
	var users []models.User
	var updated *models.User
	err := r.store.Update(usersDocument, &users, func() error {
		for i := range users {
			if users[i].ID == id {
				if err := mutate(&users[i]); err != nil {
					return err
				}
				record := users[i]
				updated = &record
				return nil
			}
		}
		return ErrNoRecord
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
