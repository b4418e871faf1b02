package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniadmin/ums-api/internal/models"
	appErrors "github.com/uniadmin/ums-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	ListActive(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	SoftDelete(ctx context.Context, id int64) error
}

// CreateCourseRequest captures fields for creating courses.
type CreateCourseRequest struct {
	Code            string  `json:"code" validate:"required"`
	Name            string  `json:"name" validate:"required"`
	EducationSystem string  `json:"education_system" validate:"required,edusystem"`
	AdmissionYear   int     `json:"admission_year" validate:"required"`
	Duration        *int    `json:"duration" validate:"omitempty,min=1"`
	Description     *string `json:"description"`
	TotalCredits    *int    `json:"total_credits" validate:"omitempty,min=1"`
	Department      *string `json:"department"`
}

// UpdateCourseRequest modifies course fields. Nil fields stay untouched.
type UpdateCourseRequest struct {
	Code            *string `json:"code"`
	Name            *string `json:"name"`
	EducationSystem *string `json:"education_system" validate:"omitempty,edusystem"`
	AdmissionYear   *int    `json:"admission_year"`
	Duration        *int    `json:"duration" validate:"omitempty,min=1"`
	Description     *string `json:"description"`
	TotalCredits    *int    `json:"total_credits" validate:"omitempty,min=1"`
	Department      *string `json:"department"`
	IsActive        *bool   `json:"is_active"`
}

// CourseService handles course domain workflows.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(repo courseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns active courses matching the filter with pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = models.DefaultPageLimit
	}
	return courses, models.NewPagination(filter.Page, limit, total), nil
}

// Get returns the course behind the id regardless of its active flag.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a new course guarding code uniqueness and the admission year window.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	maxYear := time.Now().Year() + 1
	if req.AdmissionYear < 2000 || req.AdmissionYear > maxYear {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("admission year must be between 2000 and %d", maxYear))
	}

	req.Code = strings.TrimSpace(req.Code)

	exists, err := s.repo.ExistsByCode(ctx, req.Code, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "course code already exists")
	}

	course := &models.Course{
		Code:            req.Code,
		Name:            req.Name,
		EducationSystem: req.EducationSystem,
		AdmissionYear:   req.AdmissionYear,
		Duration:        models.DefaultCourseDuration,
		TotalCredits:    models.DefaultCourseCredits,
		Description:     req.Description,
		Department:      req.Department,
		IsActive:        true,
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.TotalCredits != nil {
		course.TotalCredits = *req.TotalCredits
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.invalidateStats(ctx)
	return course, nil
}

// Update modifies an existing course. Only provided fields change.
func (s *CourseService) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code != course.Code {
			exists, err := s.repo.ExistsByCode(ctx, code, id)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
			}
			if exists {
				return nil, appErrors.Clone(appErrors.ErrDuplicate, "course code already exists")
			}
		}
		course.Code = code
	}
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.EducationSystem != nil {
		course.EducationSystem = *req.EducationSystem
	}
	if req.AdmissionYear != nil {
		course.AdmissionYear = *req.AdmissionYear
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.TotalCredits != nil {
		course.TotalCredits = *req.TotalCredits
	}
	if req.Department != nil {
		course.Department = req.Department
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.invalidateStats(ctx)
	return course, nil
}

// Delete deactivates the course. The row stays in place and keeps its code.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *CourseService) invalidateStats(ctx context.Context) {
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, statsCachePattern)
	}
}
