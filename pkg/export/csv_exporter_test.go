package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := sampleDataset()
	data.TitleRows = []string{"Danh sách ngành học"}

	payload, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)

	// title rows are spreadsheet decoration only
	require.Len(t, records, 3)
	assert.Equal(t, []string{"STT", "MÃ", "TÊN"}, records[0])
	assert.Equal(t, []string{"2", "KT2023", "Kế toán"}, records[2])
}

func TestCSVExporterRejectsMissingHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := sampleDataset()
	data.TitleRows = []string{"Danh sách ngành học"}

	payload, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}
