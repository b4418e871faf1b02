package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Sheet:   "Danh sach",
		Headers: []string{"STT", "MÃ", "TÊN"},
		Rows: []map[string]string{
			{"STT": "1", "MÃ": "CNTT2024", "TÊN": "Công nghệ thông tin"},
			{"STT": "2", "MÃ": "KT2023", "TÊN": "Kế toán"},
		},
	}
}

func TestExcelExporterRender(t *testing.T) {
	payload, err := NewExcelExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	require.Equal(t, []string{"Danh sach"}, f.GetSheetList())

	rows, err := f.GetRows("Danh sach")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"STT", "MÃ", "TÊN"}, rows[0])
	assert.Equal(t, []string{"1", "CNTT2024", "Công nghệ thông tin"}, rows[1])
	assert.Equal(t, []string{"2", "KT2023", "Kế toán"}, rows[2])
}

func TestExcelExporterRenderTitleRows(t *testing.T) {
	data := sampleDataset()
	data.TitleRows = []string{"Ngành: CNTT2024 - Công nghệ thông tin", "Hệ: Đại học, Khóa: 2024"}

	payload, err := NewExcelExporter().Render(data)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	title, err := f.GetCellValue("Danh sach", "A1")
	require.NoError(t, err)
	assert.Equal(t, data.TitleRows[0], title)

	// titles span the table width
	merges, err := f.GetMergeCells("Danh sach")
	require.NoError(t, err)
	require.Len(t, merges, 2)

	// row 3 is the spacer, headers land on row 4
	header, err := f.GetCellValue("Danh sach", "A4")
	require.NoError(t, err)
	assert.Equal(t, "STT", header)
}

func TestExcelExporterRenderHeaderOnly(t *testing.T) {
	data := Dataset{Headers: []string{"STT"}}

	payload, err := NewExcelExporter().Render(data)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestExcelExporterRejectsMissingHeaders(t *testing.T) {
	_, err := NewExcelExporter().Render(Dataset{Sheet: "X"})
	require.Error(t, err)
}
