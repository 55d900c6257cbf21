package engine

import "strings"

// DefaultDelimiter separates fields when no delimiter is given.
const DefaultDelimiter = ","

// ParseDelimitedText parses header-first delimited text into a Table.
//
// Fields are whitespace-trimmed and every double quote is removed. There is
// no support for escaped quotes or delimiters inside quoted fields. A line
// with fewer fields than the header produces a row without the trailing
// keys; extra fields are ignored. Parsing never fails.
func ParseDelimitedText(text, delimiter string) *Table {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return &Table{Columns: []string{}, Rows: []Row{}}
	}
	lines := strings.Split(text, "\n")

	header := splitFields(lines[0], delimiter)
	cols := newColumnSet(len(header))
	for _, name := range header {
		cols.add(name)
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitFields(line, delimiter)
		row := make(Row, len(header))
		for i, name := range header {
			if i >= len(fields) {
				break
			}
			row[name] = coerce(fields[i])
		}
		rows = append(rows, row)
	}

	return &Table{Columns: cols.names, Rows: rows}
}

// splitFields splits one line and normalizes each field.
func splitFields(line, delimiter string) []string {
	parts := strings.Split(line, delimiter)
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.TrimSpace(p), `"`, "")
	}
	return parts
}
