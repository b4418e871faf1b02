package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/uniadmin/ums-api/internal/models"
)

// StatsRepository aggregates dashboard counts.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new repository instance.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Summary counts active courses and programs, split by workflow status.
func (r *StatsRepository) Summary(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats

	if err := r.db.GetContext(ctx, &stats.Courses, `SELECT COUNT(*) FROM courses WHERE is_active = TRUE`); err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}

	const programQuery = `SELECT COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'pending') AS pending,
		COUNT(*) FILTER (WHERE status = 'approved') AS approved
		FROM training_programs WHERE is_active = TRUE`
	var row struct {
		Total    int `db:"total"`
		Pending  int `db:"pending"`
		Approved int `db:"approved"`
	}
	if err := r.db.GetContext(ctx, &row, programQuery); err != nil {
		return nil, fmt.Errorf("count programs: %w", err)
	}

	stats.Programs = row.Total
	stats.PendingPrograms = row.Pending
	stats.ApprovedPrograms = row.Approved
	return &stats, nil
}
