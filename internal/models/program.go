package models

import "time"

// ProgramStatus represents the training-program workflow state.
type ProgramStatus string

const (
	ProgramStatusDraft    ProgramStatus = "draft"
	ProgramStatusPending  ProgramStatus = "pending"
	ProgramStatusApproved ProgramStatus = "approved"
	ProgramStatusInactive ProgramStatus = "inactive"
)

// Defaults applied when a create payload omits the fields.
const (
	DefaultProgramSemesters = 8
	DefaultProgramCredits   = 120
)

// ValidProgramStatus reports whether the value belongs to the status set.
func ValidProgramStatus(value string) bool {
	switch ProgramStatus(value) {
	case ProgramStatusDraft, ProgramStatusPending, ProgramStatusApproved, ProgramStatusInactive:
		return true
	}
	return false
}

// StatusDisplay returns the Vietnamese display text used in exports.
func (s ProgramStatus) StatusDisplay() string {
	switch s {
	case ProgramStatusDraft:
		return "Nháp"
	case ProgramStatusPending:
		return "Chờ duyệt"
	case ProgramStatusApproved:
		return "Đã duyệt"
	case ProgramStatusInactive:
		return "Ngừng hoạt động"
	}
	return string(s)
}

// TrainingProgram represents a curriculum instance under a Course.
type TrainingProgram struct {
	ID             int64         `db:"id" json:"id"`
	ProgramCode    string        `db:"program_code" json:"program_code"`
	ProgramName    string        `db:"program_name" json:"program_name"`
	CourseID       int64         `db:"course_id" json:"course_id"`
	AcademicYear   string        `db:"academic_year" json:"academic_year"`
	TotalSemesters int           `db:"total_semesters" json:"total_semesters"`
	TotalCredits   int           `db:"total_credits" json:"total_credits"`
	Description    *string       `db:"description" json:"description"`
	Status         ProgramStatus `db:"status" json:"status"`
	IsActive       bool          `db:"is_active" json:"is_active"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`

	Course CourseRef `db:"course" json:"course"`
}

// ProgramFilter captures supported filters for listing programs.
type ProgramFilter struct {
	Search   string
	Status   string
	CourseID int64
	Page     int
	Limit    int
}
