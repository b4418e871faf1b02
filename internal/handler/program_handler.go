package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uniadmin/ums-api/internal/models"
	"github.com/uniadmin/ums-api/internal/service"
	appErrors "github.com/uniadmin/ums-api/pkg/errors"
	"github.com/uniadmin/ums-api/pkg/response"
)

// ProgramHandler handles training-program endpoints.
type ProgramHandler struct {
	service *service.ProgramService
	export  *service.ExportService
	logger  *zap.Logger
}

// NewProgramHandler constructs a training-program handler.
func NewProgramHandler(svc *service.ProgramService, export *service.ExportService, logger *zap.Logger) *ProgramHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramHandler{service: svc, export: export, logger: logger}
}

// List godoc
// @Summary List active training programs
// @Tags Programs
// @Produce json
// @Param search query string false "Search by code, name or description"
// @Param status query string false "Filter by workflow status"
// @Param course_id query int false "Filter by course"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	filter := models.ProgramFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   c.Query("status"),
		CourseID: queryInt64(c, "course_id"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	}
	programs, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, programs, pagination)
}

// Get godoc
// @Summary Get training program by id
// @Tags Programs
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /programs/{id} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	program, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, program, nil)
}

// Create godoc
// @Summary Create training program
// @Tags Programs
// @Accept json
// @Produce json
// @Param payload body service.CreateProgramRequest true "Program payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /programs [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	var req service.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	program, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "training program created", program)
}

// Update godoc
// @Summary Update training program
// @Tags Programs
// @Accept json
// @Produce json
// @Param id path int true "Program ID"
// @Param payload body service.UpdateProgramRequest true "Program payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /programs/{id} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	program, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "training program updated", program, nil)
}

// Delete godoc
// @Summary Deactivate training program
// @Tags Programs
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /programs/{id} [delete]
func (h *ProgramHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "training program deleted", nil, nil)
}

// Export godoc
// @Summary Export training programs as a spreadsheet
// @Tags Programs
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "xlsx, csv or pdf" default(xlsx)
// @Success 200 {file} binary
// @Router /programs/export/excel [get]
func (h *ProgramHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	dataset, err := h.export.ProgramsDataset(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := h.export.Render(dataset, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, service.Filename("danh-sach-chuong-trinh-dao-tao", format), format.ContentType(), payload)
}

// ExportTest godoc
// @Summary Generate a small diagnostic workbook
// @Tags Programs
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /programs/export/test [get]
func (h *ProgramHandler) ExportTest(c *gin.Context) {
	payload, err := h.export.Render(h.export.TestDataset(), service.FormatXLSX)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, "test-export.xlsx", service.FormatXLSX.ContentType(), payload)
}
