package models

import "time"

// Subject type closed set.
const (
	SubjectTypeMandatory = "Bắt buộc"
	SubjectTypeElective  = "Tự chọn"

	DefaultSubjectCredits = 3
	MinSemester           = 1
	MaxSemester           = 16

	// Subject listings default to a wider window than the other resources.
	DefaultSubjectPageLimit = 50
)

// ValidSubjectType reports whether the value belongs to the closed set.
func ValidSubjectType(value string) bool {
	return value == SubjectTypeMandatory || value == SubjectTypeElective
}

// Subject represents a teachable unit, optionally scoped to a Course.
type Subject struct {
	ID              int64     `db:"id" json:"id"`
	Code            string    `db:"code" json:"code"`
	Name            string    `db:"name" json:"name"`
	Credits         int       `db:"credits" json:"credits"`
	SubjectType     string    `db:"subject_type" json:"subject_type"`
	CourseID        *int64    `db:"course_id" json:"course_id"`
	Description     *string   `db:"description" json:"description"`
	CurriculumLinks *string   `db:"curriculum_links" json:"curriculum_links"`
	Semester        *int      `db:"semester" json:"semester"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`

	Course CourseRef `db:"course" json:"course"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Search      string
	SubjectType string
	CourseID    int64
	Page        int
	Limit       int
}
