package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/service"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type schoolServiceMock struct {
	listResp   []models.School
	listPage   *models.Pagination
	listErr    error
	getResp    *models.School
	getErr     error
	createResp *models.School
	createErr  error
	updateResp *models.School
	updateErr  error
	deleteErr  error

	lastID       int64
	deleteCalled bool
}

func (m *schoolServiceMock) List(ctx context.Context, page int) ([]models.School, *models.Pagination, error) {
	return m.listResp, m.listPage, m.listErr
}

func (m *schoolServiceMock) Get(ctx context.Context, id int64) (*models.School, error) {
	m.lastID = id
	return m.getResp, m.getErr
}

func (m *schoolServiceMock) Create(ctx context.Context, req service.SchoolRequest) (*models.School, error) {
	return m.createResp, m.createErr
}

func (m *schoolServiceMock) Update(ctx context.Context, id int64, req service.SchoolRequest) (*models.School, error) {
	m.lastID = id
	return m.updateResp, m.updateErr
}

func (m *schoolServiceMock) Delete(ctx context.Context, id int64) error {
	m.deleteCalled = true
	m.lastID = id
	return m.deleteErr
}

func TestSchoolHandlerCreate(t *testing.T) {
	mockSvc := &schoolServiceMock{createResp: &models.School{ID: 2, Name: "Greenwood High School"}}
	h := NewSchoolHandler(mockSvc)

	payload, _ := json.Marshal(service.SchoolRequest{Name: "Greenwood High School", Principal: "Alice Thompson", Address: "12 Elm Street"})
	c, w := testContext(t, http.MethodPost, "/schools", payload)
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/schools/2", w.Header().Get("Location"))
}

func TestSchoolHandlerCreateDuplicateName(t *testing.T) {
	mockSvc := &schoolServiceMock{createErr: appErrors.Clone(appErrors.ErrConflict, "school name 'Greenwood High School' already exists")}
	h := NewSchoolHandler(mockSvc)

	payload, _ := json.Marshal(service.SchoolRequest{Name: "Greenwood High School", Principal: "Alice Thompson", Address: "12 Elm Street"})
	c, w := testContext(t, http.MethodPost, "/schools", payload)
	h.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchoolHandlerGetNotFound(t *testing.T) {
	mockSvc := &schoolServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "school not found")}
	h := NewSchoolHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/schools/42", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	h.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSchoolHandlerDelete(t *testing.T) {
	mockSvc := &schoolServiceMock{}
	h := NewSchoolHandler(mockSvc)

	c, w := testContext(t, http.MethodDelete, "/schools/2", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	h.Delete(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.deleteCalled)
	assert.Equal(t, int64(2), mockSvc.lastID)
}
