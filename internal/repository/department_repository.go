package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const departmentsDocument = "departments"

// DepartmentRepository provides persistence for departments and their
// join queues.
type DepartmentRepository struct {
	store *docstore.Store
}

// NewDepartmentRepository creates the repository.
func NewDepartmentRepository(store *docstore.Store) *DepartmentRepository {
	return &DepartmentRepository{store: store}
}

// List returns all departments sorted by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := r.store.Load(departmentsDocument, &departments); err != nil {
		return nil, err
	}
	sort.Slice(departments, func(i, j int) bool {
		return strings.ToLower(departments[i].Name) < strings.ToLower(departments[j].Name)
	})
	return departments, nil
}

// GetByID returns a department by identifier.
func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*models.Department, error) {
	var departments []models.Department
	if err := r.store.Load(departmentsDocument, &departments); err != nil {
		return nil, err
	}
	for i := range departments {
		if departments[i].ID == id {
			department := departments[i]
			return &department, nil
		}
	}
	return nil, ErrNoRecord
}

// FindByJoinToken returns the department behind a public join link.
func (r *DepartmentRepository) FindByJoinToken(ctx context.Context, token string) (*models.Department, error) {
	var departments []models.Department
	if err := r.store.Load(departmentsDocument, &departments); err != nil {
		return nil, err
	}
	for i := range departments {
		if departments[i].JoinToken == token {
			department := departments[i]
			return &department, nil
		}
	}
	return nil, ErrNoRecord
}

// Create appends a new department.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	var departments []models.Department
	return r.store.Update(departmentsDocument, &departments, func() error {
		departments = append(departments, *department)
		return nil
	})
}

// Update applies mutate to the department with the given id under the
// document lock and returns the updated copy.
func (r *DepartmentRepository) Update(ctx context.Context, id string, mutate func(*models.Department) error) (*models.Department, error) {
	return r.update(ctx, func(d models.Department) bool { return d.ID == id }, mutate)
}

// UpdateByJoinToken applies mutate to the department behind a join link.
func (r *DepartmentRepository) UpdateByJoinToken(ctx context.Context, token string, mutate func(*models.Department) error) (*models.Department, error) {
	return r.update(ctx, func(d models.Department) bool { return d.JoinToken == token }, mutate)
}

func (r *DepartmentRepository) update(ctx context.Context, match func(models.Department) bool, mutate func(*models.Department) error) (*models.Department, error) {
	var departments []models.Department
	var updated *models.Department
	err := r.store.Update(departmentsDocument, &departments, func() error {
		for i := range departments {
			if match(departments[i]) {
				if err := mutate(&departments[i]); err != nil {
					return err
				}
				record := departments[i]
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
