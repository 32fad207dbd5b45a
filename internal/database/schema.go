package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS schools (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    principal TEXT NOT NULL,
    address TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
    id SERIAL PRIMARY KEY,
    school_id INTEGER NOT NULL REFERENCES schools(id) ON DELETE CASCADE,
    full_name VARCHAR(100) NOT NULL,
    student_code VARCHAR(20) NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    phone VARCHAR(11),
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_students_school_id ON students (school_id);
CREATE INDEX IF NOT EXISTS idx_students_created_at ON students (created_at);
`

// EnsureSchema creates the schools and students tables when missing. The
// unique constraints back the application-level uniqueness checks and the
// foreign key cascades school deletion to its students.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// baselineSchools are inserted at startup so the API is usable against an
// empty database. ON CONFLICT keeps the routine idempotent.
var baselineSchools = []struct {
	Name      string
	Principal string
	Address   string
}{
	{"Greenwood High School", "Alice Thompson", "12 Elm Street, Springfield"},
	{"Riverside Secondary School", "Mark Davies", "48 River Road, Fairview"},
}

const seedSchoolQuery = `INSERT INTO schools (name, principal, address, created_at, updated_at)
    VALUES ($1, $2, $3, NOW(), NOW()) ON CONFLICT (name) DO NOTHING`

// Seed inserts the baseline schools. Rerunning never duplicates rows.
func Seed(ctx context.Context, db *sqlx.DB) error {
	for _, school := range baselineSchools {
		if _, err := db.ExecContext(ctx, seedSchoolQuery, school.Name, school.Principal, school.Address); err != nil {
			return fmt.Errorf("seed school %q: %w", school.Name, err)
		}
	}
	return nil
}
