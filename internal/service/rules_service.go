package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jornal-escolar/portal-api/internal/models"
	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

type rulesRepository interface {
	Get(ctx context.Context) (*models.Rules, error)
	Save(ctx context.Context, rules *models.Rules) error
}

// RulesService manages the single-document conduct manual.
type RulesService struct {
	repo   rulesRepository
	logger *zap.Logger
}

// NewRulesService constructs a RulesService instance.
func NewRulesService(repo rulesRepository, logger *zap.Logger) *RulesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RulesService{repo: repo, logger: logger}
}

// Get returns the current manual, falling back to the built-in default.
func (s *RulesService) Get(ctx context.Context) (*models.Rules, error) {
	rules, err := s.repo.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rules")
	}
	return rules, nil
}

// Update replaces the manual content and stamps the revision time.
func (s *RulesService) Update(ctx context.Context, content string) (*models.Rules, error) {
	if strings.TrimSpace(content) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rules content cannot be empty")
	}
	now := time.Now().UTC()
	rules := &models.Rules{Content: content, UpdatedAt: &now}
	if err := s.repo.Save(ctx, rules); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save rules")
	}
	return rules, nil
}
