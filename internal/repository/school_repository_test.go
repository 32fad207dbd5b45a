package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-records-api/internal/models"
)

func schoolRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "name", "principal", "address", "created_at", "updated_at"}).
		AddRow(int64(2), "Greenwood High School", "Alice Thompson", "12 Elm Street, Springfield", now, now)
}

func TestSchoolRepositoryList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(`FROM schools ORDER BY created_at DESC LIMIT 10 OFFSET 0`).
		WillReturnRows(schoolRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schools`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	schools, total, err := repo.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, schools, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryExists(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM schools WHERE id = \$1 LIMIT 1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryExistsMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM schools WHERE id = \$1 LIMIT 1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))

	exists, err := repo.Exists(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryExistsByName(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM schools WHERE name = \$1 AND id <> \$2 LIMIT 1`).
		WithArgs("Greenwood High School", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))

	exists, err := repo.ExistsByName(context.Background(), "Greenwood High School", 2)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(`INSERT INTO schools`).
		WithArgs("Greenwood High School", "Alice Thompson", "12 Elm Street, Springfield", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	school := &models.School{Name: "Greenwood High School", Principal: "Alice Thompson", Address: "12 Elm Street, Springfield"}
	err := repo.Create(context.Background(), school)
	require.NoError(t, err)
	assert.Equal(t, int64(2), school.ID)
	assert.True(t, school.CreatedAt.Equal(school.UpdatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectExec(`UPDATE schools SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	school := &models.School{ID: 2, Name: "Greenwood High School", Principal: "Alice Thompson", Address: "New Address"}
	require.NoError(t, repo.Update(context.Background(), school))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectExec(`DELETE FROM schools WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
