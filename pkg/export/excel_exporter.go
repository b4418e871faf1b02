package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	minColumnWidth = 10
	maxColumnWidth = 60
)

// ExcelExporter renders datasets into single-sheet XLSX workbooks.
type ExcelExporter struct{}

// NewExcelExporter constructs an Excel exporter.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Render produces an XLSX workbook with optional merged title rows, a styled
// header row and auto-sized columns.
func (e *ExcelExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheet := data.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	} else {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
	}

	rowNum := 1
	if len(data.TitleRows) > 0 {
		titleStyle, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 13},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		})
		if err != nil {
			return nil, fmt.Errorf("build title style: %w", err)
		}
		for _, title := range data.TitleRows {
			start, _ := excelize.CoordinatesToCellName(1, rowNum)
			end, _ := excelize.CoordinatesToCellName(len(data.Headers), rowNum)
			if err := f.SetCellStr(sheet, start, title); err != nil {
				return nil, fmt.Errorf("write title row: %w", err)
			}
			if err := f.MergeCell(sheet, start, end); err != nil {
				return nil, fmt.Errorf("merge title row: %w", err)
			}
			if err := f.SetCellStyle(sheet, start, end, titleStyle); err != nil {
				return nil, fmt.Errorf("style title row: %w", err)
			}
			rowNum++
		}
		// blank spacer between titles and the table
		rowNum++
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("build header style: %w", err)
	}

	headerRow := rowNum
	headerCells := make([]interface{}, len(data.Headers))
	for i, header := range data.Headers {
		headerCells[i] = header
	}
	start, _ := excelize.CoordinatesToCellName(1, headerRow)
	if err := f.SetSheetRow(sheet, start, &headerCells); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}
	end, _ := excelize.CoordinatesToCellName(len(data.Headers), headerRow)
	if err := f.SetCellStyle(sheet, start, end, headerStyle); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}
	rowNum++

	for _, row := range data.Rows {
		cells := make([]interface{}, len(data.Headers))
		for i, header := range data.Headers {
			cells[i] = row[header]
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("write data row: %w", err)
		}
		rowNum++
	}

	if err := e.autoFitColumns(f, sheet, data); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ExcelExporter) autoFitColumns(f *excelize.File, sheet string, data Dataset) error {
	for i, header := range data.Headers {
		width := float64(len([]rune(header)))
		for _, row := range data.Rows {
			if l := float64(len([]rune(row[header]))); l > width {
				width = l
			}
		}
		width += 2
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("resolve column name: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}
