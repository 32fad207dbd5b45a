package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/validation"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/export"
)

type studentRepository interface {
	List(ctx context.Context, page int) ([]models.StudentDetail, int, error)
	ListAll(ctx context.Context) ([]models.StudentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.StudentDetail, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type schoolChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// StudentRequest is the payload for creating and updating students. Update
// replaces every mutable field wholesale, so both operations share it.
type StudentRequest struct {
	FullName    string  `json:"full_name" validate:"required,min=2,max=100"`
	StudentCode string  `json:"student_code" validate:"required,min=5,max=20"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,phonedigits"`
	SchoolID    int64   `json:"school_id" validate:"required"`
}

// ExportFormats supported by the roster export.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	schools   schoolChecker
	validator *validator.Validate
	logger    *zap.Logger
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, schools schoolChecker, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:      repo,
		schools:   schools,
		validator: validate,
		logger:    logger,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// List returns one page of students and pagination metadata.
func (s *StudentService) List(ctx context.Context, page int) ([]models.StudentDetail, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	students, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, models.NewPagination(page, total), nil
}

// Get returns a student with the owning school name.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student after field and cross-record validation.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithFields(validation.Fields(err), "invalid student payload")
	}
	if err := s.checkSchool(ctx, req.SchoolID); err != nil {
		return nil, err
	}
	codeTaken, err := s.repo.ExistsByCode(ctx, req.StudentCode, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student code")
	}
	if codeTaken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("student code '%s' already exists", req.StudentCode))
	}
	emailTaken, err := s.repo.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if emailTaken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("email '%s' is already taken", req.Email))
	}

	student := &models.Student{
		SchoolID:    req.SchoolID,
		FullName:    req.FullName,
		StudentCode: req.StudentCode,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.Int64("id", student.ID), zap.String("student_code", student.StudentCode))
	return student, nil
}

// Update replaces every mutable field of an existing student. Uniqueness
// checks exclude the student's own record.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithFields(validation.Fields(err), "invalid student payload")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.checkSchool(ctx, req.SchoolID); err != nil {
		return nil, err
	}
	emailTaken, err := s.repo.ExistsByEmail(ctx, req.Email, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if emailTaken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("email '%s' is already taken by another student", req.Email))
	}
	codeTaken, err := s.repo.ExistsByCode(ctx, req.StudentCode, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student code")
	}
	if codeTaken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("student code '%s' is already taken by another student", req.StudentCode))
	}

	student := detail.Student
	student.SchoolID = req.SchoolID
	student.FullName = req.FullName
	student.StudentCode = req.StudentCode
	student.Email = req.Email
	student.Phone = req.Phone
	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return &student, nil
}

// Delete removes a student record.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// ExportRoster renders the full roster as CSV or PDF bytes and reports the
// matching content type.
func (s *StudentService) ExportRoster(ctx context.Context, format string) ([]byte, string, error) {
	students, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	dataset := rosterDataset(students)
	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Student Roster")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format '%s'", format))
	}
}

func (s *StudentService) checkSchool(ctx context.Context, schoolID int64) error {
	ok, err := s.schools.Exists(ctx, schoolID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate school")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("school %d does not exist", schoolID))
	}
	return nil
}

func rosterDataset(students []models.StudentDetail) export.Dataset {
	headers := []string{"ID", "Full Name", "Student Code", "Email", "Phone", "School"}
	rows := make([]map[string]string, 0, len(students))
	for _, s := range students {
		phone := ""
		if s.Phone != nil {
			phone = *s.Phone
		}
		rows = append(rows, map[string]string{
			"ID":           strconv.FormatInt(s.ID, 10),
			"Full Name":    s.FullName,
			"Student Code": s.StudentCode,
			"Email":        s.Email,
			"Phone":        phone,
			"School":       s.SchoolName,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
