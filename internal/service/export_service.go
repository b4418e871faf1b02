package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/uniadmin/ums-api/internal/models"
	appErrors "github.com/uniadmin/ums-api/pkg/errors"
	"github.com/uniadmin/ums-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
	FormatPDF  ExportFormat = "pdf"
)

// ParseExportFormat maps the format query parameter, defaulting to xlsx.
func ParseExportFormat(value string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
}

// ContentType returns the MIME type for download responses.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Ext returns the file extension without the dot.
func (f ExportFormat) Ext() string {
	return string(f)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type exportCourseRepository interface {
	ListActive(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

type exportProgramRepository interface {
	ListActive(ctx context.Context) ([]models.TrainingProgram, error)
}

type exportSubjectRepository interface {
	ListActive(ctx context.Context) ([]models.Subject, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Subject, error)
}

// ExportService builds spreadsheet datasets from the full active collections.
type ExportService struct {
	courses  exportCourseRepository
	programs exportProgramRepository
	subjects exportSubjectRepository
	xlsx     datasetRenderer
	csv      datasetRenderer
	pdf      datasetRenderer
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(courses exportCourseRepository, programs exportProgramRepository, subjects exportSubjectRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		courses:  courses,
		programs: programs,
		subjects: subjects,
		xlsx:     export.NewExcelExporter(),
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// Render serializes the dataset in the requested format.
func (s *ExportService) Render(data export.Dataset, format ExportFormat) ([]byte, error) {
	var renderer datasetRenderer
	switch format {
	case FormatCSV:
		renderer = s.csv
	case FormatPDF:
		renderer = s.pdf
	default:
		renderer = s.xlsx
	}
	payload, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return payload, nil
}

// CoursesDataset lists every active course. An empty collection still
// produces a header-only sheet.
func (s *ExportService) CoursesDataset(ctx context.Context) (export.Dataset, error) {
	courses, err := s.courses.ListActive(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}

	data := export.Dataset{
		Sheet:   "Danh sach Nganh hoc",
		Headers: []string{"STT", "MÃ NGÀNH", "TÊN NGÀNH", "HỆ ĐÀO TẠO", "KHÓA", "THỜI GIAN (năm)", "SỐ TÍN CHỈ", "KHOA/PHÒNG", "MÔ TẢ"},
	}
	for i, course := range courses {
		data.Rows = append(data.Rows, map[string]string{
			"STT":             strconv.Itoa(i + 1),
			"MÃ NGÀNH":        course.Code,
			"TÊN NGÀNH":       course.Name,
			"HỆ ĐÀO TẠO":      course.EducationSystem,
			"KHÓA":            strconv.Itoa(course.AdmissionYear),
			"THỜI GIAN (năm)": strconv.Itoa(course.Duration),
			"SỐ TÍN CHỈ":      strconv.Itoa(course.TotalCredits),
			"KHOA/PHÒNG":      stringOrDefault(course.Department, ""),
			"MÔ TẢ":           stringOrDefault(course.Description, ""),
		})
	}
	return data, nil
}

// ProgramsDataset lists every active program ordered for reporting. Unlike
// the other exports, an empty collection is an error.
func (s *ExportService) ProgramsDataset(ctx context.Context) (export.Dataset, error) {
	programs, err := s.programs.ListActive(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programs")
	}
	if len(programs) == 0 {
		return export.Dataset{}, appErrors.Clone(appErrors.ErrNotFound, "no training programs to export")
	}

	data := export.Dataset{
		Sheet:   "CTDT",
		Headers: []string{"STT", "MÃ CTĐT", "TÊN CTĐT", "MÃ NGÀNH", "TÊN NGÀNH", "HỆ ĐÀO TẠO", "KHÓA", "NĂM HỌC", "SỐ HỌC KỲ", "SỐ TÍN CHỈ", "TRẠNG THÁI", "NGÀY TẠO"},
	}
	for i, program := range programs {
		data.Rows = append(data.Rows, map[string]string{
			"STT":        strconv.Itoa(i + 1),
			"MÃ CTĐT":    program.ProgramCode,
			"TÊN CTĐT":   program.ProgramName,
			"MÃ NGÀNH":   stringOrDefault(program.Course.Code, "N/A"),
			"TÊN NGÀNH":  stringOrDefault(program.Course.Name, "N/A"),
			"HỆ ĐÀO TẠO": stringOrDefault(program.Course.EducationSystem, "N/A"),
			"KHÓA":       intOrDefault(program.Course.AdmissionYear, "N/A"),
			"NĂM HỌC":    program.AcademicYear,
			"SỐ HỌC KỲ":  strconv.Itoa(program.TotalSemesters),
			"SỐ TÍN CHỈ": strconv.Itoa(program.TotalCredits),
			"TRẠNG THÁI": program.Status.StatusDisplay(),
			"NGÀY TẠO":   program.CreatedAt.Format("02/01/2006"),
		})
	}
	return data, nil
}

// SubjectsDataset lists every active subject with its parent course columns.
func (s *ExportService) SubjectsDataset(ctx context.Context) (export.Dataset, error) {
	subjects, err := s.subjects.ListActive(ctx)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}

	data := export.Dataset{
		Sheet:   "Danh sach mon hoc",
		Headers: []string{"STT", "MÃ MÔN", "TÊN MÔN", "SỐ TÍN CHỈ", "LOẠI MÔN", "MÃ NGÀNH", "TÊN NGÀNH", "HỌC KỲ", "MÔ TẢ", "TÀI LIỆU"},
	}
	for i, subject := range subjects {
		data.Rows = append(data.Rows, map[string]string{
			"STT":        strconv.Itoa(i + 1),
			"MÃ MÔN":     subject.Code,
			"TÊN MÔN":    subject.Name,
			"SỐ TÍN CHỈ": strconv.Itoa(subject.Credits),
			"LOẠI MÔN":   subject.SubjectType,
			"MÃ NGÀNH":   stringOrDefault(subject.Course.Code, "Không xác định"),
			"TÊN NGÀNH":  stringOrDefault(subject.Course.Name, ""),
			"HỌC KỲ":     intOrDefault(subject.Semester, ""),
			"MÔ TẢ":      stringOrDefault(subject.Description, ""),
			"TÀI LIỆU":   joinLinks(subject.CurriculumLinks),
		})
	}
	return data, nil
}

// SubjectsByCourseDataset scopes the subject export to one course and
// decorates the sheet with course title rows. The course must exist.
func (s *ExportService) SubjectsByCourseDataset(ctx context.Context, courseID int64) (export.Dataset, *models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return export.Dataset{}, nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return export.Dataset{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	subjects, err := s.subjects.ListByCourse(ctx, courseID)
	if err != nil {
		return export.Dataset{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}

	data := export.Dataset{
		Sheet: fmt.Sprintf("Mon hoc - %s", course.Code),
		TitleRows: []string{
			fmt.Sprintf("Ngành: %s - %s", course.Code, course.Name),
			fmt.Sprintf("Hệ: %s, Khóa: %d", course.EducationSystem, course.AdmissionYear),
		},
		Headers: []string{"STT", "MÃ MÔN", "TÊN MÔN", "SỐ TÍN CHỈ", "LOẠI MÔN", "HỌC KỲ", "MÔ TẢ", "TÀI LIỆU"},
	}
	for i, subject := range subjects {
		data.Rows = append(data.Rows, map[string]string{
			"STT":        strconv.Itoa(i + 1),
			"MÃ MÔN":     subject.Code,
			"TÊN MÔN":    subject.Name,
			"SỐ TÍN CHỈ": strconv.Itoa(subject.Credits),
			"LOẠI MÔN":   subject.SubjectType,
			"HỌC KỲ":     intOrDefault(subject.Semester, ""),
			"MÔ TẢ":      stringOrDefault(subject.Description, ""),
			"TÀI LIỆU":   joinLinks(subject.CurriculumLinks),
		})
	}
	return data, course, nil
}

// TestDataset produces a tiny fixed workbook used to verify that spreadsheet
// generation works in the deployed environment.
func (s *ExportService) TestDataset() export.Dataset {
	return export.Dataset{
		Sheet:   "Test",
		Headers: []string{"STT", "Cột A", "Cột B"},
		Rows: []map[string]string{
			{"STT": "1", "Cột A": "Xin chào", "Cột B": "Hello"},
			{"STT": "2", "Cột A": "Kiểm tra", "Cột B": "Test"},
			{"STT": "3", "Cột A": "Xuất file", "Cột B": "Export"},
		},
	}
}

// Filename joins the base name with the format extension.
func Filename(base string, format ExportFormat) string {
	return base + "." + format.Ext()
}

func joinLinks(links *string) string {
	if links == nil {
		return ""
	}
	parts := strings.Split(*links, "\n")
	clean := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	return strings.Join(clean, ", ")
}

func stringOrDefault(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

func intOrDefault(value *int, fallback string) string {
	if value == nil {
		return fallback
	}
	return strconv.Itoa(*value)
}
