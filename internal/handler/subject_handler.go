package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uniadmin/ums-api/internal/models"
	"github.com/uniadmin/ums-api/internal/service"
	appErrors "github.com/uniadmin/ums-api/pkg/errors"
	"github.com/uniadmin/ums-api/pkg/export"
	"github.com/uniadmin/ums-api/pkg/response"
)

type subjectService interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Subject, error)
	Get(ctx context.Context, id int64) (*models.Subject, error)
	Create(ctx context.Context, req service.CreateSubjectRequest) (*models.Subject, error)
	Update(ctx context.Context, id int64, req service.UpdateSubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, id int64) error
}

type subjectExporter interface {
	SubjectsDataset(ctx context.Context) (export.Dataset, error)
	SubjectsByCourseDataset(ctx context.Context, courseID int64) (export.Dataset, *models.Course, error)
	Render(data export.Dataset, format service.ExportFormat) ([]byte, error)
}

// SubjectHandler handles subject endpoints.
type SubjectHandler struct {
	service subjectService
	export  subjectExporter
	logger  *zap.Logger
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc subjectService, export subjectExporter, logger *zap.Logger) *SubjectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectHandler{service: svc, export: export, logger: logger}
}

// List godoc
// @Summary List active subjects
// @Tags Subjects
// @Produce json
// @Param search query string false "Search by code, name or description"
// @Param subject_type query string false "Filter by subject type"
// @Param course_id query int false "Filter by course"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	filter := models.SubjectFilter{
		Search:      strings.TrimSpace(c.Query("search")),
		SubjectType: c.Query("subject_type"),
		CourseID:    queryInt64(c, "course_id"),
		Page:        queryInt(c, "page"),
		Limit:       queryInt(c, "limit"),
	}
	subjects, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, subjects, pagination)
}

// ListByCourse godoc
// @Summary List active subjects of one course
// @Tags Subjects
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/course/{courseId} [get]
func (h *SubjectHandler) ListByCourse(c *gin.Context) {
	courseID, err := idParam(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	subjects, err := h.service.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Counted(c, subjects, len(subjects))
}

// Get godoc
// @Summary Get subject by id
// @Tags Subjects
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	subject, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, subject, nil)
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body service.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req service.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "subject created", subject)
}

// Update godoc
// @Summary Update subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path int true "Subject ID"
// @Param payload body service.UpdateSubjectRequest true "Subject payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "subject updated", subject, nil)
}

// Delete godoc
// @Summary Deactivate subject
// @Tags Subjects
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "subject deleted", nil, nil)
}

// Export godoc
// @Summary Export subjects as a spreadsheet
// @Tags Subjects
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "xlsx, csv or pdf" default(xlsx)
// @Success 200 {file} binary
// @Router /subjects/export/excel [get]
func (h *SubjectHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	dataset, err := h.export.SubjectsDataset(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := h.export.Render(dataset, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, service.Filename("danh-sach-mon-hoc", format), format.ContentType(), payload)
}

// ExportByCourse godoc
// @Summary Export the subjects of one course as a spreadsheet
// @Tags Subjects
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param courseId path int true "Course ID"
// @Param format query string false "xlsx, csv or pdf" default(xlsx)
// @Success 200 {file} binary
// @Router /subjects/course/{courseId}/export/excel [get]
func (h *SubjectHandler) ExportByCourse(c *gin.Context) {
	courseID, err := idParam(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	dataset, course, err := h.export.SubjectsByCourseDataset(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := h.export.Render(dataset, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	base := fmt.Sprintf("danh-sach-mon-hoc-%s", course.Code)
	sendFile(c, service.Filename(base, format), format.ContentType(), payload)
}
