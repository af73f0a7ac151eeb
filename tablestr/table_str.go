package tablestr

import (
	"fmt"
	"strings"
)

// TableStr renders headers plus rows as an aligned text table, for the CLI
// mode and summary logging.
type TableStr struct {
	Headers []string
	Rows    [][]string
}

func New() *TableStr {
	return &TableStr{}
}

func (t *TableStr) SetHeaders(headers []string) error {
	if len(headers) == 0 {
		return fmt.Errorf("headers cannot be empty")
	}
	t.Headers = headers
	t.Rows = make([][]string, 0)
	return nil
}

func (t *TableStr) SetRows(rows [][]string) {
	t.Rows = rows
}

func (t *TableStr) isValid() error {
	if len(t.Headers) == 0 {
		return fmt.Errorf("headers not set")
	}
	for _, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("invalid row format expected %d fields\nRow: %v", len(t.Headers), row)
		}
	}
	return nil
}

// columnWidths sizes each column to its widest cell.
func (t *TableStr) columnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, v := range row {
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
	}
	return widths
}

func (t *TableStr) String() (string, error) {
	if err := t.isValid(); err != nil {
		return "", err
	}

	widths := t.columnWidths()
	sb := strings.Builder{}

	addRow := func(row []string) {
		sb.WriteString("| ")
		for i, v := range row {
			sb.WriteString(fmt.Sprintf(fmt.Sprintf("%%-%dv | ", widths[i]), v))
		}
		sb.WriteString("\n")
	}

	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = strings.Repeat("-", widths[i])
	}

	sb.WriteString("\n")
	addRow(t.Headers)
	addRow(sep)
	for _, row := range t.Rows {
		addRow(row)
	}
	return sb.String(), nil
}
