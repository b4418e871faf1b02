package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniadmin/ums-api/internal/models"
)

func subjectRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "code", "name", "credits", "subject_type", "course_id", "description",
		"curriculum_links", "semester", "is_active", "created_at", "updated_at",
		"course.id", "course.code", "course.name", "course.education_system", "course.admission_year",
	})
}

func TestSubjectRepositoryListDefaultsToFiftyRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	rows := subjectRows().
		AddRow(int64(1), "INT1001", "Nhập môn lập trình", 3, "Bắt buộc", int64(3), nil, nil, 1, true, time.Now(), time.Now(),
			int64(3), "CNTT2024", "Công nghệ thông tin", "Đại học", 2024)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.is_active = TRUE ORDER BY s.course_id ASC, s.code ASC LIMIT 50 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM subjects s")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.SubjectFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, total)
	require.NotNil(t, list[0].Course.Name)
	assert.Equal(t, "Công nghệ thông tin", *list[0].Course.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("(s.code LIKE $1 OR s.name LIKE $1 OR s.description LIKE $1) AND s.subject_type = $2 AND s.course_id = $3")).
		WithArgs("%int%", "Tự chọn", int64(3)).
		WillReturnRows(subjectRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%int%", "Tự chọn", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, total, err := repo.List(context.Background(), models.SubjectFilter{Search: "int", SubjectType: "Tự chọn", CourseID: 3})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListByCourseOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.course_id = $1 AND s.is_active = TRUE ORDER BY s.semester ASC, s.code ASC")).
		WithArgs(int64(3)).
		WillReturnRows(subjectRows())

	list, err := repo.ListByCourse(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryOrphanCourseRef(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	rows := subjectRows().
		AddRow(int64(8), "PHY1001", "Vật lý đại cương", 2, "Tự chọn", nil, nil, nil, nil, true, time.Now(), time.Now(),
			nil, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1")).
		WithArgs(int64(8)).
		WillReturnRows(rows)

	subject, err := repo.FindByID(context.Background(), 8)
	require.NoError(t, err)
	assert.Nil(t, subject.CourseID)
	assert.Nil(t, subject.Course.Code)
	assert.Nil(t, subject.Semester)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery("INSERT INTO subjects").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(21)))

	subject := &models.Subject{Code: "INT1001", Name: "Nhập môn lập trình", Credits: 3, SubjectType: "Bắt buộc", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), subject))
	assert.Equal(t, int64(21), subject.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositorySoftDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectExec("UPDATE subjects SET is_active = FALSE").
		WithArgs(int64(4), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}
