package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniadmin/ums-api/internal/models"
	appErrors "github.com/uniadmin/ums-api/pkg/errors"
)

type programRepository interface {
	List(ctx context.Context, filter models.ProgramFilter) ([]models.TrainingProgram, int, error)
	ListActive(ctx context.Context) ([]models.TrainingProgram, error)
	FindByID(ctx context.Context, id int64) (*models.TrainingProgram, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, program *models.TrainingProgram) error
	Update(ctx context.Context, program *models.TrainingProgram) error
	SoftDelete(ctx context.Context, id int64) error
}

type programCourseRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// CreateProgramRequest captures fields for creating training programs.
type CreateProgramRequest struct {
	ProgramCode    string  `json:"program_code" validate:"required"`
	ProgramName    string  `json:"program_name" validate:"required"`
	CourseID       int64   `json:"course_id" validate:"required"`
	AcademicYear   string  `json:"academic_year" validate:"required"`
	TotalSemesters *int    `json:"total_semesters" validate:"omitempty,min=1"`
	TotalCredits   *int    `json:"total_credits" validate:"omitempty,min=1"`
	Description    *string `json:"description"`
	Status         string  `json:"status" validate:"omitempty,programstatus"`
}

// UpdateProgramRequest modifies program fields. Nil fields stay untouched.
type UpdateProgramRequest struct {
	ProgramCode    *string `json:"program_code"`
	ProgramName    *string `json:"program_name"`
	CourseID       *int64  `json:"course_id"`
	AcademicYear   *string `json:"academic_year"`
	TotalSemesters *int    `json:"total_semesters" validate:"omitempty,min=1"`
	TotalCredits   *int    `json:"total_credits" validate:"omitempty,min=1"`
	Description    *string `json:"description"`
	Status         *string `json:"status" validate:"omitempty,programstatus"`
	IsActive       *bool   `json:"is_active"`
}

// ProgramService handles training-program domain workflows.
type ProgramService struct {
	repo      programRepository
	courses   programCourseRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService creates a new training-program service.
func NewProgramService(repo programRepository, courses programCourseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, courses: courses, cache: cache, validator: validate, logger: logger}
}

// List returns active programs matching the filter with pagination metadata.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.TrainingProgram, *models.Pagination, error) {
	programs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = models.DefaultPageLimit
	}
	return programs, models.NewPagination(filter.Page, limit, total), nil
}

// Get returns the program behind the id regardless of its active flag.
func (s *ProgramService) Get(ctx context.Context, id int64) (*models.TrainingProgram, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "training program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	return program, nil
}

// Create adds a new training program under an existing course.
func (s *ProgramService) Create(ctx context.Context, req CreateProgramRequest) (*models.TrainingProgram, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}

	req.ProgramCode = strings.TrimSpace(req.ProgramCode)

	exists, err := s.repo.ExistsByCode(ctx, req.ProgramCode, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check program code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "program code already exists")
	}

	if err := s.requireCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}

	program := &models.TrainingProgram{
		ProgramCode:    req.ProgramCode,
		ProgramName:    req.ProgramName,
		CourseID:       req.CourseID,
		AcademicYear:   req.AcademicYear,
		TotalSemesters: models.DefaultProgramSemesters,
		TotalCredits:   models.DefaultProgramCredits,
		Description:    req.Description,
		Status:         models.ProgramStatusDraft,
		IsActive:       true,
	}
	if req.TotalSemesters != nil {
		program.TotalSemesters = *req.TotalSemesters
	}
	if req.TotalCredits != nil {
		program.TotalCredits = *req.TotalCredits
	}
	if req.Status != "" {
		program.Status = models.ProgramStatus(req.Status)
	}

	if err := s.repo.Create(ctx, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create program")
	}

	s.invalidateStats(ctx)
	return s.Get(ctx, program.ID)
}

// Update modifies an existing program. Only provided fields change.
func (s *ProgramService) Update(ctx context.Context, id int64, req UpdateProgramRequest) (*models.TrainingProgram, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}

	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "training program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}

	if req.ProgramCode != nil {
		code := strings.TrimSpace(*req.ProgramCode)
		if code != program.ProgramCode {
			exists, err := s.repo.ExistsByCode(ctx, code, id)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check program code")
			}
			if exists {
				return nil, appErrors.Clone(appErrors.ErrDuplicate, "program code already exists")
			}
		}
		program.ProgramCode = code
	}
	if req.CourseID != nil && *req.CourseID != program.CourseID {
		if err := s.requireCourse(ctx, *req.CourseID); err != nil {
			return nil, err
		}
		program.CourseID = *req.CourseID
	}
	if req.ProgramName != nil {
		program.ProgramName = *req.ProgramName
	}
	if req.AcademicYear != nil {
		program.AcademicYear = *req.AcademicYear
	}
	if req.TotalSemesters != nil {
		program.TotalSemesters = *req.TotalSemesters
	}
	if req.TotalCredits != nil {
		program.TotalCredits = *req.TotalCredits
	}
	if req.Description != nil {
		program.Description = req.Description
	}
	if req.Status != nil {
		program.Status = models.ProgramStatus(*req.Status)
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update program")
	}

	s.invalidateStats(ctx)
	return s.Get(ctx, id)
}

// Delete deactivates the program.
func (s *ProgramService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete program")
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *ProgramService) requireCourse(ctx context.Context, courseID int64) error {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return nil
}

func (s *ProgramService) invalidateStats(ctx context.Context) {
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, statsCachePattern)
	}
}
