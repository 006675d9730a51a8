package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoria-api/internal/dto"
	"github.com/noah-isme/tutoria-api/internal/models"
	"github.com/noah-isme/tutoria-api/internal/repository"
	appErrors "github.com/noah-isme/tutoria-api/pkg/errors"
)

type tutoriaRepository interface {
	Create(ctx context.Context, professorID int64, draft models.TutoriaDraft) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Tutoria, error)
	List(ctx context.Context, filter repository.TutoriaFilter) ([]models.Tutoria, error)
	Update(ctx context.Context, id int64, draft models.TutoriaDraft) error
	Delete(ctx context.Context, id int64) error
}

// TutoriaService implements the professor-facing record use cases.
type TutoriaService struct {
	repo      tutoriaRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewTutoriaService constructs the service. The catalogue rules are registered
// on the given validator.
func NewTutoriaService(repo tutoriaRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *TutoriaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerCatalogRules(validate)
	return &TutoriaService{repo: repo, validator: validate, metrics: metrics, logger: logger}
}

// Create stores a new record owned by the acting user.
func (s *TutoriaService) Create(ctx context.Context, auth models.AuthContext, req dto.TutoriaRequest) (int64, error) {
	if !auth.Authenticated() {
		return 0, appErrors.ErrUnauthorized
	}
	draft, err := s.prepare(req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, auth.UserID, draft)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create tutoria")
	}
	s.metrics.RecordMutation(MutationCreate, 1)
	return id, nil
}

// Update replaces every editable field of a record.
func (s *TutoriaService) Update(ctx context.Context, auth models.AuthContext, id int64, req dto.TutoriaRequest) error {
	if _, err := s.authorize(ctx, auth, id); err != nil {
		return err
	}
	draft, err := s.prepare(req)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, draft); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update tutoria")
	}
	s.metrics.RecordMutation(MutationUpdate, 1)
	return nil
}

// Delete removes a record permanently.
func (s *TutoriaService) Delete(ctx context.Context, auth models.AuthContext, id int64) error {
	rec, err := s.authorize(ctx, auth, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete tutoria")
	}
	s.metrics.RecordMutation(MutationDelete, 1)
	s.logger.Info("tutoria deleted",
		zap.Int64("tutoria_id", id),
		zap.Int64("owner_id", rec.ProfessorID),
		zap.Int64("user_id", auth.UserID),
	)
	return nil
}

// Form prepares the form page. A nil id yields an empty form; with duplicate set
// the record only seeds a new draft and keeps no identity.
func (s *TutoriaService) Form(ctx context.Context, auth models.AuthContext, id *int64, duplicate bool) (*dto.TutoriaForm, error) {
	if !auth.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	if id == nil {
		return &dto.TutoriaForm{Draft: models.TutoriaDraft{ContatosExtra: models.Contacts{}, Ocorrencias: models.Tags{}}}, nil
	}

	rec, err := s.authorize(ctx, auth, *id)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return &dto.TutoriaForm{Draft: rec.Draft(), Duplicating: true}, nil
	}
	recID := rec.ID
	return &dto.TutoriaForm{ID: &recID, Draft: rec.Draft()}, nil
}

// List returns the records visible to the user, newest first. Accounts with the
// gestao role see every record.
func (s *TutoriaService) List(ctx context.Context, auth models.AuthContext) ([]models.Tutoria, error) {
	if !auth.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	filter := repository.TutoriaFilter{}
	if !auth.HasGestaoRole() {
		uid := auth.UserID
		filter.ProfessorID = &uid
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutorias")
	}
	return items, nil
}

func (s *TutoriaService) authorize(ctx context.Context, auth models.AuthContext, id int64) (*models.Tutoria, error) {
	if !auth.Authenticated() {
		return nil, appErrors.ErrUnauthorized
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutoria")
	}
	if !auth.CanEdit(rec.ProfessorID) {
		return nil, appErrors.ErrForbidden
	}
	return rec, nil
}

func (s *TutoriaService) prepare(req dto.TutoriaRequest) (models.TutoriaDraft, error) {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return models.TutoriaDraft{}, validationError(err)
	}
	return req.Draft(), nil
}
