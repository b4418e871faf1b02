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

const programColumns = `p.id, p.program_code, p.program_name, p.course_id, p.academic_year, p.total_semesters,
	p.total_credits, p.description, p.status, p.is_active, p.created_at, p.updated_at,
	c.id AS "course.id", c.code AS "course.code", c.name AS "course.name",
	c.education_system AS "course.education_system", c.admission_year AS "course.admission_year", c.duration AS "course.duration"`

const programJoin = "FROM training_programs p LEFT JOIN courses c ON c.id = p.course_id"

// ProgramRepository handles persistence for training programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository creates a new repository instance.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns active programs matching filters plus the matching total.
// Rows carry the denormalized course reference.
func (r *ProgramRepository) List(ctx context.Context, filter models.ProgramFilter) ([]models.TrainingProgram, int, error) {
	base := programJoin + " WHERE p.is_active = TRUE"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(p.program_code LIKE $%d OR p.program_name LIKE $%d OR p.description LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.CourseID > 0 {
		conditions = append(conditions, fmt.Sprintf("p.course_id = $%d", len(args)+1))
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
		limit = 20
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT %s %s ORDER BY p.created_at DESC LIMIT %d OFFSET %d", programColumns, base, limit, offset)
	var programs []models.TrainingProgram
	if err := r.db.SelectContext(ctx, &programs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list programs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count programs: %w", err)
	}

	return programs, total, nil
}

// ListActive returns every active program in export order.
func (r *ProgramRepository) ListActive(ctx context.Context) ([]models.TrainingProgram, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE p.is_active = TRUE ORDER BY p.academic_year DESC, p.program_code ASC", programColumns, programJoin)
	var programs []models.TrainingProgram
	if err := r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("list active programs: %w", err)
	}
	return programs, nil
}

// FindByID returns a program with its course reference, ignoring the active flag.
func (r *ProgramRepository) FindByID(ctx context.Context, id int64) (*models.TrainingProgram, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE p.id = $1", programColumns, programJoin)
	var program models.TrainingProgram
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		return nil, err
	}
	return &program, nil
}

// ExistsByCode checks program code uniqueness across active and inactive rows.
func (r *ProgramRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM training_programs WHERE program_code = $1"
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
		return false, fmt.Errorf("check program code: %w", err)
	}
	return true, nil
}

// Create persists a new program and fills the generated id.
func (r *ProgramRepository) Create(ctx context.Context, program *models.TrainingProgram) error {
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	const query = `INSERT INTO training_programs (program_code, program_name, course_id, academic_year, total_semesters, total_credits, description, status, is_active, created_at, updated_at)
		VALUES (:program_code, :program_name, :course_id, :academic_year, :total_semesters, :total_credits, :description, :status, :is_active, :created_at, :updated_at)
		RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, program)
	if err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&program.ID); err != nil {
			return fmt.Errorf("scan program id: %w", err)
		}
	}
	return rows.Err()
}

// Update persists the full program row.
func (r *ProgramRepository) Update(ctx context.Context, program *models.TrainingProgram) error {
	program.UpdatedAt = time.Now().UTC()
	const query = `UPDATE training_programs SET program_code = :program_code, program_name = :program_name, course_id = :course_id,
		academic_year = :academic_year, total_semesters = :total_semesters, total_credits = :total_credits,
		description = :description, status = :status, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	return nil
}

// SoftDelete flips the active flag; the row is retained.
func (r *ProgramRepository) SoftDelete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE training_programs SET is_active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("soft delete program: %w", err)
	}
	return nil
}
