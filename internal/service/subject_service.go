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

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	ListActive(ctx context.Context) ([]models.Subject, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Subject, error)
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	SoftDelete(ctx context.Context, id int64) error
}

// CreateSubjectRequest captures fields for creating subjects.
type CreateSubjectRequest struct {
	Code            string  `json:"code" validate:"required"`
	Name            string  `json:"name" validate:"required"`
	Credits         *int    `json:"credits" validate:"omitempty,min=1"`
	SubjectType     string  `json:"subject_type" validate:"omitempty,subjecttype"`
	CourseID        *int64  `json:"course_id"`
	Description     *string `json:"description"`
	CurriculumLinks *string `json:"curriculum_links"`
	Semester        *int    `json:"semester" validate:"omitempty,min=1,max=16"`
}

// UpdateSubjectRequest modifies subject fields. Nil fields stay untouched.
// A CourseID of zero detaches the subject from its course.
type UpdateSubjectRequest struct {
	Code            *string `json:"code"`
	Name            *string `json:"name"`
	Credits         *int    `json:"credits" validate:"omitempty,min=1"`
	SubjectType     *string `json:"subject_type" validate:"omitempty,subjecttype"`
	CourseID        *int64  `json:"course_id"`
	Description     *string `json:"description"`
	CurriculumLinks *string `json:"curriculum_links"`
	Semester        *int    `json:"semester" validate:"omitempty,min=1,max=16"`
	IsActive        *bool   `json:"is_active"`
}

// SubjectService handles subject domain workflows.
type SubjectService struct {
	repo      subjectRepository
	courses   programCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, courses programCourseRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// List returns active subjects matching the filter with pagination metadata.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = models.DefaultSubjectPageLimit
	}
	return subjects, models.NewPagination(filter.Page, limit, total), nil
}

// ListByCourse returns the active subjects attached to a course ordered by
// semester. The course itself is not required to exist.
func (s *SubjectService) ListByCourse(ctx context.Context, courseID int64) ([]models.Subject, error) {
	subjects, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// Get returns the subject behind the id regardless of its active flag.
func (s *SubjectService) Get(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// Create adds a new subject, optionally attached to an existing course.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	req.Code = strings.TrimSpace(req.Code)

	exists, err := s.repo.ExistsByCode(ctx, req.Code, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "subject code already exists")
	}

	if req.CourseID != nil {
		if err := s.requireCourse(ctx, *req.CourseID); err != nil {
			return nil, err
		}
	}

	subject := &models.Subject{
		Code:            req.Code,
		Name:            req.Name,
		Credits:         models.DefaultSubjectCredits,
		SubjectType:     models.SubjectTypeMandatory,
		CourseID:        req.CourseID,
		Description:     req.Description,
		CurriculumLinks: req.CurriculumLinks,
		Semester:        req.Semester,
		IsActive:        true,
	}
	if req.Credits != nil {
		subject.Credits = *req.Credits
	}
	if req.SubjectType != "" {
		subject.SubjectType = req.SubjectType
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return s.Get(ctx, subject.ID)
}

// Update modifies an existing subject. Only provided fields change.
func (s *SubjectService) Update(ctx context.Context, id int64, req UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code != subject.Code {
			exists, err := s.repo.ExistsByCode(ctx, code, id)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
			}
			if exists {
				return nil, appErrors.Clone(appErrors.ErrDuplicate, "subject code already exists")
			}
		}
		subject.Code = code
	}
	if req.CourseID != nil {
		if *req.CourseID == 0 {
			subject.CourseID = nil
		} else {
			if err := s.requireCourse(ctx, *req.CourseID); err != nil {
				return nil, err
			}
			subject.CourseID = req.CourseID
		}
	}
	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Credits != nil {
		subject.Credits = *req.Credits
	}
	if req.SubjectType != nil {
		subject.SubjectType = *req.SubjectType
	}
	if req.Description != nil {
		subject.Description = req.Description
	}
	if req.CurriculumLinks != nil {
		subject.CurriculumLinks = req.CurriculumLinks
	}
	if req.Semester != nil {
		subject.Semester = req.Semester
	}
	if req.IsActive != nil {
		subject.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return s.Get(ctx, id)
}

// Delete deactivates the subject.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	return nil
}

func (s *SubjectService) requireCourse(ctx context.Context, courseID int64) error {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return nil
}
