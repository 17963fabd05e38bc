package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/pkg/docstore"
)

const studentsDocument = "students"

// StudentRepository provides persistence for the students document.
type StudentRepository struct {
	store *docstore.Store
}

// NewStudentRepository creates the repository.
func NewStudentRepository(store *docstore.Store) *StudentRepository {
	return &StudentRepository{store: store}
}

// List returns all participant records sorted by name.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.store.Load(studentsDocument, &students); err != nil {
		return nil, err
	}
	sort.Slice(students, func(i, j int) bool {
		return strings.ToLower(students[i].Name) < strings.ToLower(students[j].Name)
	})
	return students, nil
}

// GetByID returns a participant by identifier.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var students []models.Student
	if err := r.store.Load(studentsDocument, &students); err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].ID == id {
			student := students[i]
			return &student, nil
		}
	}
	return nil, ErrNoRecord
}

// Create appends a new participant record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	var students []models.Student
	return r.store.Update(studentsDocument, &students, func() error {
		students = append(students, *student)
		return nil
	})
}

// Update applies mutate to the record with the given id under the document
// lock and returns the updated copy.
func (r *StudentRepository) Update(ctx context.Context, id string, mutate func(*models.Student) error) (*models.Student, error) {
	var students []models.Student
	var updated *models.Student
	err := r.store.Update(studentsDocument, &students, func() error {
		for i := range students {
			if students[i].ID == id {
				if err := mutate(&students[i]); err != nil {
					return err
				}
				record := students[i]
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
