package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jornal-escolar/portal-api/internal/models"
	"github.com/jornal-escolar/portal-api/internal/repository"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
	"github.com/jornal-escolar/portal-api/pkg/export"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, id string, mutate func(*models.Student) error) (*models.Student, error)
}

// StudentService manages the participant roster.
type StudentService struct {
	repo      studentRepository
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{
		repo:      repo,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

// List returns the roster sorted by name.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns one roster record.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create adds a roster record with portal access enabled.
func (s *StudentService) Create(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Role:          input.Role,
		Contact:       input.Contact,
		Notes:         input.Notes,
		PortalEnabled: true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist student")
	}
	return student, nil
}

// Update edits the editable fields of a roster record.
func (s *StudentService) Update(ctx context.Context, id string, input models.StudentInput) (*models.Student, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.Update(ctx, id, func(st *models.Student) error {
		st.Name = input.Name
		st.Role = input.Role
		st.Contact = input.Contact
		st.Notes = input.Notes
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// TogglePortal flips portal access. Roster records are never deleted, a
// blocked record keeps its history.
func (s *StudentService) TogglePortal(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.Update(ctx, id, func(st *models.Student) error {
		st.PortalEnabled = !st.PortalEnabled
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle portal access")
	}
	return student, nil
}

// ExportCSV renders the roster as a CSV download.
func (s *StudentService) ExportCSV(ctx context.Context) ([]byte, error) {
	dataset, err := s.rosterDataset(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(*dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster CSV")
	}
	return payload, nil
}

// ExportPDF renders the roster as a PDF download.
func (s *StudentService) ExportPDF(ctx context.Context) ([]byte, error) {
	dataset, err := s.rosterDataset(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.Render(*dataset, "Equipe do Jornal")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster PDF")
	}
	return payload, nil
}

func (s *StudentService) rosterDataset(ctx context.Context) (*export.Dataset, error) {
	students, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	dataset := &export.Dataset{Headers: []string{"Nome", "Função", "Contato", "Portal", "Desde"}}
	for _, st := range students {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Nome":    st.Name,
			"Função":  st.Role,
			"Contato": st.Contact,
			"Portal":  strconv.FormatBool(st.PortalEnabled),
			"Desde":   st.CreatedAt.Format("2006-01-02"),
		})
	}
	return dataset, nil
}
