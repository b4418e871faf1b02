package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniadmin/ums-api/internal/models"
	"github.com/uniadmin/ums-api/internal/service"
	appErrors "github.com/uniadmin/ums-api/pkg/errors"
	"github.com/uniadmin/ums-api/pkg/export"
)

type testEnvelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       interface{}            `json:"data"`
	Count      *int                   `json:"count"`
	Pagination map[string]interface{} `json:"pagination"`
}

type fakeCourseSrv struct {
	courses    []models.Course
	pagination *models.Pagination
	course     *models.Course
	err        error
	lastFilter models.CourseFilter
	deleted    []int64
}

func (f *fakeCourseSrv) List(_ context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	f.lastFilter = filter
	return f.courses, f.pagination, f.err
}

func (f *fakeCourseSrv) Get(context.Context, int64) (*models.Course, error) {
	return f.course, f.err
}

func (f *fakeCourseSrv) Create(_ context.Context, req service.CreateCourseRequest) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Course{ID: 1, Code: req.Code, Name: req.Name}, nil
}

func (f *fakeCourseSrv) Update(context.Context, int64, service.UpdateCourseRequest) (*models.Course, error) {
	return f.course, f.err
}

func (f *fakeCourseSrv) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

type fakeCourseExporterSrv struct {
	dataset export.Dataset
	payload []byte
	err     error
}

func (f *fakeCourseExporterSrv) CoursesDataset(context.Context) (export.Dataset, error) {
	return f.dataset, f.err
}

func (f *fakeCourseExporterSrv) Render(export.Dataset, service.ExportFormat) ([]byte, error) {
	return f.payload, f.err
}

func TestCourseHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeCourseSrv{
		courses:    []models.Course{{ID: 1, Code: "CNTT2024"}},
		pagination: models.NewPagination(1, 20, 1),
	}
	handler := NewCourseHandler(srv, &fakeCourseExporterSrv{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses?search=cntt&page=2", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cntt", srv.lastFilter.Search)
	assert.Equal(t, 2, srv.lastFilter.Page)

	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, float64(1), envelope.Pagination["total"])
}

func TestCourseHandlerGetInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCourseHandler(&fakeCourseSrv{}, &fakeCourseExporterSrv{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCourseHandler(&fakeCourseSrv{}, &fakeCourseExporterSrv{}, nil)

	body := `{"code":"CNTT2024","name":"Công nghệ thông tin","admission_year":2024}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "course created", envelope.Message)
}

func TestCourseHandlerCreateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCourseHandler(&fakeCourseSrv{}, &fakeCourseExporterSrv{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandlerDeletePropagatesError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeCourseSrv{err: appErrors.Clone(appErrors.ErrNotFound, "course not found")}
	handler := NewCourseHandler(srv, &fakeCourseExporterSrv{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/courses/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "course not found", envelope.Message)
}

func TestCourseHandlerExportHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exporter := &fakeCourseExporterSrv{payload: []byte("workbook")}
	handler := NewCourseHandler(&fakeCourseSrv{}, exporter, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/export/excel", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="danh-sach-nganh-hoc.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Equal(t, "workbook", rec.Body.String())
}

func TestCourseHandlerExportUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCourseHandler(&fakeCourseSrv{}, &fakeCourseExporterSrv{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/export/excel?format=docx", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
