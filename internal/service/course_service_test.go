package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uniadmin/ums-api/internal/models"
	appErrors "github.com/uniadmin/ums-api/pkg/errors"
)

type mockCourseRepo struct {
	items      map[int64]*models.Course
	nextID     int64
	listResult []models.Course
	listTotal  int
	deleted    []int64
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{items: make(map[int64]*models.Course), nextID: 1}
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockCourseRepo) ListActive(ctx context.Context) ([]models.Course, error) {
	var active []models.Course
	for _, course := range m.items {
		if course.IsActive {
			active = append(active, *course)
		}
	}
	return active, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if course, ok := m.items[id]; ok {
		cp := *course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	for _, course := range m.items {
		if course.Code == code && course.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = m.nextID
	m.nextID++
	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now
	cp := *course
	m.items[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	cp := *course
	m.items[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) SoftDelete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	if course, ok := m.items[id]; ok {
		course.IsActive = false
	}
	return nil
}

func seedCourse(repo *mockCourseRepo, code string, active bool) *models.Course {
	course := &models.Course{
		Code:            code,
		Name:            "Ngành " + code,
		EducationSystem: "Đại học",
		AdmissionYear:   2024,
		Duration:        4,
		TotalCredits:    120,
		IsActive:        active,
	}
	_ = repo.Create(context.Background(), course)
	return repo.items[course.ID]
}

func TestCourseServiceCreateDefaults(t *testing.T) {
	repo := newMockCourseRepo()
	svc := NewCourseService(repo, nil, NewValidator(), zap.NewNop())

	course, err := svc.Create(context.Background(), CreateCourseRequest{
		Code:            "CNTT2024",
		Name:            "Công nghệ thông tin",
		EducationSystem: "Đại học",
		AdmissionYear:   2024,
	})
	require.NoError(t, err)
	assert.Equal(t, "Đại học", course.EducationSystem)
	assert.Equal(t, 4, course.Duration)
	assert.Equal(t, 120, course.TotalCredits)
	assert.True(t, course.IsActive)
	assert.NotZero(t, course.ID)
}

func TestCourseServiceCreateRequiresEducationSystem(t *testing.T) {
	repo := newMockCourseRepo()
	svc := NewCourseService(repo, nil, NewValidator(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateCourseRequest{
		Code:          "CNTT2024",
		Name:          "Công nghệ thông tin",
		AdmissionYear: 2024,
	})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Empty(t, repo.items)
}

func TestCourseServiceCreateAdmissionYearWindow(t *testing.T) {
	repo := newMockCourseRepo()
	svc := NewCourseService(repo, nil, NewValidator(), zap.NewNop())

	maxYear := time.Now().Year() + 1
	tests := []struct {
		year  int
		valid bool
	}{
		{1999, false},
		{2000, true},
		{maxYear, true},
		{maxYear + 1, false},
	}
	for i, tc := range tests {
		_, err := svc.Create(context.Background(), CreateCourseRequest{
			Code:            fmt.Sprintf("Y%d-%d", tc.year, i),
			Name:            "Test",
			EducationSystem: "Đại học",
			AdmissionYear:   tc.year,
		})
		if tc.valid {
			assert.NoError(t, err, "year %d", tc.year)
		} else {
			require.Error(t, err, "year %d", tc.year)
			assert.Equal(t, 400, appErrors.FromError(err).Status)
		}
	}
}

func TestCourseServiceCreateRejectsUnknownEducationSystem(t *testing.T) {
	repo := newMockCourseRepo()
	svc := NewCourseService(repo, nil, NewValidator(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateCourseRequest{
		Code:            "CNTT2024",
		Name:            "Công nghệ thông tin",
		EducationSystem: "Từ xa",
		AdmissionYear:   2024,
	})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestCourseServiceCreateDuplicateIncludesInactive(t *testing.T) {
	repo := newMockCourseRepo()
	seedCourse(repo, "CNTT2024", false)
	svc := NewCourseService(repo, nil, NewValidator(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateCourseRequest{
		Code:            "CNTT2024",
		Name:            "Công nghệ thông tin",
		EducationSystem: "Đại học",
		AdmissionYear:   2024,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Message, "already exists")
}

func TestCourseServiceUpdatePartial(t *testing.T) {
	repo := newMockCourseRepo()
	course := seedCourse(repo, "CNTT2024", true)
	svc := NewCourseService(repo, nil, NewValidator(), zap.NewNop())

	name := "Công nghệ thông tin chất lượng cao"
	updated, err := svc.Update(context.Background(), course.ID, UpdateCourseRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "CNTT2024", updated.Code)
	assert.Equal(t, 2024, updated.AdmissionYear)
}

func TestCourseServiceUpdateDuplicateCode(t *testing.T) {
	repo := newMockCourseRepo()
	seedCourse(repo, "CNTT2024", true)
	course := seedCourse(repo, "KT2024", true)
	svc := NewCourseService(repo, nil, NewValidator(), zap.NewNop())

	code := "CNTT2024"
	_, err := svc.Update(context.Background(), course.ID, UpdateCourseRequest{Code: &code})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	// Re-submitting the course's own code is not a conflict.
	own := "KT2024"
	_, err = svc.Update(context.Background(), course.ID, UpdateCourseRequest{Code: &own})
	assert.NoError(t, err)
}

func TestCourseServiceUpdateMissing(t *testing.T) {
	svc := NewCourseService(newMockCourseRepo(), nil, NewValidator(), zap.NewNop())

	name := "Whatever"
	_, err := svc.Update(context.Background(), 404, UpdateCourseRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestCourseServiceDeleteSoft(t *testing.T) {
	repo := newMockCourseRepo()
	course := seedCourse(repo, "CNTT2024", true)
	svc := NewCourseService(repo, nil, NewValidator(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), course.ID))
	assert.Equal(t, []int64{course.ID}, repo.deleted)

	// The row survives and is still readable by id.
	got, err := svc.Get(context.Background(), course.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestCourseServiceDeleteMissing(t *testing.T) {
	svc := NewCourseService(newMockCourseRepo(), nil, NewValidator(), zap.NewNop())

	err := svc.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestCourseServiceListPagination(t *testing.T) {
	repo := newMockCourseRepo()
	repo.listTotal = 45
	svc := NewCourseService(repo, nil, NewValidator(), zap.NewNop())

	_, pagination, err := svc.List(context.Background(), models.CourseFilter{Page: 2, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 45, pagination.Total)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 3, pagination.Pages)

	_, pagination, err = svc.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.Limit)
}
