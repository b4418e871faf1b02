package export

// Dataset defines tabular export content. TitleRows are rendered above the
// header row (merged across the full width in spreadsheet output).
type Dataset struct {
	Sheet     string
	TitleRows []string
	Headers   []string
	Rows      []map[string]string
}
