package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const rolesDocument = "roles"

// RoleRepository provides persistence for permission roles.
type RoleRepository struct {
	store *docstore.Store
}

// NewRoleRepository creates the repository, seeding the built-in roles when
// the document does not exist yet.
func NewRoleRepository(store *docstore.Store) (*RoleRepository, error) {
	repo := &RoleRepository{store: store}
	var roles []models.Role
	err := store.Update(rolesDocument, &roles, func() error {
		if len(roles) == 0 {
			roles = models.DefaultRoles()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// List returns all roles sorted by name.
func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.store.Load(rolesDocument, &roles); err != nil {
		return nil, err
	}
	sort.Slice(roles, func(i, j int) bool {
		return strings.ToLower(roles[i].Name) < strings.ToLower(roles[j].Name)
	})
	return roles, nil
}

// FindByName returns the role with the given name.
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	var roles []models.Role
	if err := r.store.Load(rolesDocument, &roles); err != nil {
		return nil, err
	}
	for i := range roles {
		if roles[i].Name == name {
			role := roles[i]
			return &role, nil
		}
	}
	return nil, ErrNoRecord
}

// Create appends a new role. Returns ErrDuplicate when the name is taken.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	var roles []models.Role
	return r.store.Update(rolesDocument, &roles, func() error {
		for i := range roles {
			if roles[i].Name == role.Name {
				return ErrDuplicate
			}
		}
		roles = append(roles, *role)
		return nil
	})
}
