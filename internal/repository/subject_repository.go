package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/uniadmin/ums-api/internal/models"
)

const subjectColumns = `s.id, s.code, s.name, s.credits, s.subject_type, s.course_id, s.description,
	s.curriculum_links, s.semester, s.is_active, s.created_at, s.updated_at,
	c.id AS "course.id", c.code AS "course.code", c.name AS "course.name",
	c.education_system AS "course.education_system", c.admission_year AS "course.admission_year"`

const subjectJoin = "FROM subjects s LEFT JOIN courses c ON c.id = s.course_id"

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns active subjects matching filters plus the matching total.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	base := subjectJoin + " WHERE s.is_active = TRUE"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(s.code LIKE $%d OR s.name LIKE $%d OR s.description LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.SubjectType != "" {
		conditions = append(conditions, fmt.Sprintf("s.subject_type = $%d", len(args)+1))
		args = append(args, filter.SubjectType)
	}
	if filter.CourseID > 0 {
		conditions = append(conditions, fmt.Sprintf("s.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT %s %s ORDER BY s.course_id ASC, s.code ASC LIMIT %d OFFSET %d", subjectColumns, base, limit, offset)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}

	return subjects, total, nil
}

// ListActive returns every active subject in export order.
func (r *SubjectRepository) ListActive(ctx context.Context) ([]models.Subject, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE s.is_active = TRUE ORDER BY s.course_id ASC, s.code ASC", subjectColumns, subjectJoin)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list active subjects: %w", err)
	}
	return subjects, nil
}

// ListByCourse returns a course's active subjects ordered by semester then code.
func (r *SubjectRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Subject, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE s.course_id = $1 AND s.is_active = TRUE ORDER BY s.semester ASC, s.code ASC", subjectColumns, subjectJoin)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, courseID); err != nil {
		return nil, fmt.Errorf("list subjects by course: %w", err)
	}
	return subjects, nil
}

// FindByID returns a subject with its course reference, ignoring the active flag.
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE s.id = $1", subjectColumns, subjectJoin)
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ExistsByCode checks subject code uniqueness across active and inactive rows.
func (r *SubjectRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM subjects WHERE code = $1"
	args := []interface{}{code}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject code: %w", err)
	}
	return true, nil
}

// Create persists a new subject and fills the generated id.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (code, name, credits, subject_type, course_id, description, curriculum_links, semester, is_active, created_at, updated_at)
		VALUES (:code, :name, :credits, :subject_type, :course_id, :description, :curriculum_links, :semester, :is_active, :created_at, :updated_at)
		RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, subject)
	if err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&subject.ID); err != nil {
			return fmt.Errorf("scan subject id: %w", err)
		}
	}
	return rows.Err()
}

// Update persists the full subject row.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET code = :code, name = :name, credits = :credits, subject_type = :subject_type,
		course_id = :course_id, description = :description, curriculum_links = :curriculum_links,
		semester = :semester, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// SoftDelete flips the active flag; the row is retained.
func (r *SubjectRepository) SoftDelete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE subjects SET is_active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("soft delete subject: %w", err)
	}
	return nil
}
