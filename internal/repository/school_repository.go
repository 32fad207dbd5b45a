package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-records-api/internal/models"
)

// SchoolRepository manages persistence for school records.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs a SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// List returns one page of schools, newest created first.
func (r *SchoolRepository) List(ctx context.Context, page int) ([]models.School, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * models.PageSize

	query := fmt.Sprintf(`SELECT id, name, principal, address, created_at, updated_at
        FROM schools ORDER BY created_at DESC LIMIT %d OFFSET %d`, models.PageSize, offset)

	schools := []models.School{}
	if err := r.db.SelectContext(ctx, &schools, query); err != nil {
		return nil, 0, fmt.Errorf("list schools: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM schools"); err != nil {
		return nil, 0, fmt.Errorf("count schools: %w", err)
	}
	return schools, total, nil
}

// FindByID fetches a school by ID.
func (r *SchoolRepository) FindByID(ctx context.Context, id int64) (*models.School, error) {
	const query = `SELECT id, name, principal, address, created_at, updated_at FROM schools WHERE id = $1`
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		return nil, err
	}
	return &school, nil
}

// Exists reports whether a school with the given ID exists.
func (r *SchoolRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM schools WHERE id = $1 LIMIT 1", id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check school: %w", err)
	}
	return true, nil
}

// ExistsByName checks if a school with the given name exists, optionally
// excluding an ID.
func (r *SchoolRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM schools WHERE name = $1"
	args := []interface{}{name}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check school name: %w", err)
	}
	return true, nil
}

// Create inserts a new school record and assigns the store-generated ID.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	now := time.Now().UTC()
	school.CreatedAt = now
	school.UpdatedAt = now
	const query = `INSERT INTO schools (name, principal, address, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &school.ID, query,
		school.Name, school.Principal, school.Address, school.CreatedAt, school.UpdatedAt); err != nil {
		return fmt.Errorf("create school: %w", err)
	}
	return nil
}

// Update overwrites all mutable fields of an existing school.
func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	school.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schools SET name = :name, principal = :principal, address = :address,
        updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	return nil
}

// Delete removes a school. Dependent students go with it via the foreign key
// cascade declared in the schema.
func (r *SchoolRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM schools WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	return nil
}
