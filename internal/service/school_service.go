package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/validation"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type schoolRepository interface {
	List(ctx context.Context, page int) ([]models.School, int, error)
	FindByID(ctx context.Context, id int64) (*models.School, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, school *models.School) error
	Update(ctx context.Context, school *models.School) error
	Delete(ctx context.Context, id int64) error
}

// SchoolRequest is the payload for creating and updating schools.
type SchoolRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Principal string `json:"principal" validate:"required"`
	Address   string `json:"address" validate:"required"`
}

// SchoolService handles school use-cases.
type SchoolService struct {
	repo      schoolRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService constructs the school service.
func NewSchoolService(repo schoolRepository, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{repo: repo, validator: validate, logger: logger}
}

// List returns one page of schools and pagination metadata.
func (s *SchoolService) List(ctx context.Context, page int) ([]models.School, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	schools, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schools")
	}
	return schools, models.NewPagination(page, total), nil
}

// Get returns a school by ID.
func (s *SchoolService) Get(ctx context.Context, id int64) (*models.School, error) {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}
	return school, nil
}

// Create registers a new school.
func (s *SchoolService) Create(ctx context.Context, req SchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithFields(validation.Fields(err), "invalid school payload")
	}
	nameTaken, err := s.repo.ExistsByName(ctx, req.Name, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate school name")
	}
	if nameTaken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("school name '%s' already exists", req.Name))
	}

	school := &models.School{
		Name:      req.Name,
		Principal: req.Principal,
		Address:   req.Address,
	}
	if err := s.repo.Create(ctx, school); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create school")
	}
	s.logger.Info("school created", zap.Int64("id", school.ID), zap.String("name", school.Name))
	return school, nil
}

// Update replaces every mutable field of an existing school. The name
// uniqueness check excludes the school's own record.
func (s *SchoolService) Update(ctx context.Context, id int64, req SchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithFields(validation.Fields(err), "invalid school payload")
	}
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}
	nameTaken, err := s.repo.ExistsByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate school name")
	}
	if nameTaken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("school name '%s' is already taken by another school", req.Name))
	}

	school.Name = req.Name
	school.Principal = req.Principal
	school.Address = req.Address
	if err := s.repo.Update(ctx, school); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update school")
	}
	return school, nil
}

// Delete removes a school. Its students are removed by the store-level
// cascade.
func (s *SchoolService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete school")
	}
	return nil
}
