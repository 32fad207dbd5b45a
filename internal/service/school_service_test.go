package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/validation"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type mockSchoolRepo struct {
	schools   map[int64]models.School
	names     map[string]int64
	nextID    int64
	listTotal int
	deleted   []int64
}

func newMockSchoolRepo() *mockSchoolRepo {
	return &mockSchoolRepo{
		schools: make(map[int64]models.School),
		names:   make(map[string]int64),
		nextID:  1,
	}
}

func (m *mockSchoolRepo) add(s models.School) {
	m.schools[s.ID] = s
	m.names[s.Name] = s.ID
}

func (m *mockSchoolRepo) List(ctx context.Context, page int) ([]models.School, int, error) {
	schools := make([]models.School, 0, len(m.schools))
	for _, s := range m.schools {
		schools = append(schools, s)
	}
	return schools, m.listTotal, nil
}

func (m *mockSchoolRepo) FindByID(ctx context.Context, id int64) (*models.School, error) {
	if s, ok := m.schools[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSchoolRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := m.schools[id]
	return ok, nil
}

func (m *mockSchoolRepo) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	if id, ok := m.names[name]; ok {
		return excludeID == 0 || id != excludeID, nil
	}
	return false, nil
}

func (m *mockSchoolRepo) Create(ctx context.Context, school *models.School) error {
	school.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	school.CreatedAt = now
	school.UpdatedAt = now
	m.add(*school)
	return nil
}

func (m *mockSchoolRepo) Update(ctx context.Context, school *models.School) error {
	school.UpdatedAt = time.Now().UTC()
	m.schools[school.ID] = *school
	return nil
}

func (m *mockSchoolRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.schools, id)
	return nil
}

func validSchoolRequest() SchoolRequest {
	return SchoolRequest{Name: "Greenwood High School", Principal: "Alice Thompson", Address: "12 Elm Street, Springfield"}
}

func TestSchoolServiceCreate(t *testing.T) {
	repo := newMockSchoolRepo()
	svc := NewSchoolService(repo, validation.New(), zap.NewNop())

	school, err := svc.Create(context.Background(), validSchoolRequest())
	require.NoError(t, err)
	assert.NotZero(t, school.ID)
	assert.True(t, school.CreatedAt.Equal(school.UpdatedAt))
}

func TestSchoolServiceCreateDuplicateName(t *testing.T) {
	repo := newMockSchoolRepo()
	repo.add(models.School{ID: 5, Name: "Greenwood High School"})
	svc := NewSchoolService(repo, validation.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), validSchoolRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Greenwood High School")
}

func TestSchoolServiceCreateMissingFields(t *testing.T) {
	svc := NewSchoolService(newMockSchoolRepo(), validation.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), SchoolRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "principal")
	assert.Contains(t, appErr.Fields, "address")
}

func TestSchoolServiceUpdateKeepsOwnName(t *testing.T) {
	repo := newMockSchoolRepo()
	repo.add(models.School{ID: 5, Name: "Greenwood High School", Principal: "Old", Address: "Old"})
	svc := NewSchoolService(repo, validation.New(), zap.NewNop())

	updated, err := svc.Update(context.Background(), 5, validSchoolRequest())
	require.NoError(t, err)
	assert.Equal(t, "Alice Thompson", updated.Principal)
}

func TestSchoolServiceUpdateNotFound(t *testing.T) {
	svc := NewSchoolService(newMockSchoolRepo(), validation.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), 42, validSchoolRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSchoolServiceDelete(t *testing.T) {
	repo := newMockSchoolRepo()
	repo.add(models.School{ID: 5, Name: "Greenwood High School"})
	svc := NewSchoolService(repo, validation.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), 5))
	assert.Contains(t, repo.deleted, int64(5))
}

func TestSchoolServiceDeleteNotFound(t *testing.T) {
	svc := NewSchoolService(newMockSchoolRepo(), validation.New(), zap.NewNop())

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
