package sheets

import "strings"

// Table is a worksheet read as a header row plus data rows.
type Table struct {
	Header []string
	Rows   [][]interface{}
}

func newTable(values [][]interface{}) Table {
	if len(values) == 0 {
		return Table{}
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		if s, ok := cell.(string); ok {
			header[i] = strings.TrimSpace(s)
		}
	}

	rows := make([][]interface{}, 0, len(values)-1)
	for _, row := range values[1:] {
		if isBlank(row) {
			continue
		}
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}
}

// Column returns the index of the header cell matching name, ignoring case
// and surrounding whitespace.
func (t Table) Column(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i, true
		}
	}
	return -1, false
}

// Cell returns the value at row/column, or nil when the row is shorter.
// The API trims trailing empty cells, so short rows are normal.
func Cell(row []interface{}, col int) interface{} {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

func isBlank(row []interface{}) bool {
	for _, cell := range row {
		switch v := cell.(type) {
		case nil:
		case string:
			if strings.TrimSpace(v) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}
