package models

import "time"

// EducationSystems is the closed set of education-system categories.
var EducationSystems = []string{"Đại học", "Cao đẳng", "Chất lượng cao", "Liên thông", "Vừa học vừa làm"}

const (
	DefaultCourseDuration = 4
	DefaultCourseCredits  = 120
)

// ValidEducationSystem reports whether the value belongs to the closed set.
func ValidEducationSystem(value string) bool {
	for _, s := range EducationSystems {
		if s == value {
			return true
		}
	}
	return false
}

// Course represents an academic major/track, the root parent entity.
type Course struct {
	ID              int64     `db:"id" json:"id"`
	Code            string    `db:"code" json:"code"`
	Name            string    `db:"name" json:"name"`
	EducationSystem string    `db:"education_system" json:"education_system"`
	AdmissionYear   int       `db:"admission_year" json:"admission_year"`
	Duration        int       `db:"duration" json:"duration"`
	Description     *string   `db:"description" json:"description"`
	TotalCredits    int       `db:"total_credits" json:"total_credits"`
	Department      *string   `db:"department" json:"department"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Search string
	Type   string
	Page   int
	Limit  int
}

// CourseRef is the denormalized parent reference attached to programs and
// subjects. Pointer fields allow NULLs from LEFT JOINs.
type CourseRef struct {
	ID              *int64  `db:"id" json:"id,omitempty"`
	Code            *string `db:"code" json:"code,omitempty"`
	Name            *string `db:"name" json:"name,omitempty"`
	EducationSystem *string `db:"education_system" json:"education_system,omitempty"`
	AdmissionYear   *int    `db:"admission_year" json:"admission_year,omitempty"`
	Duration        *int    `db:"duration" json:"duration,omitempty"`
}
