package engine

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseSpreadsheet reads the first sheet of an .xlsx workbook. Row 1 is
// the header; cells follow the same per-value coercion as delimited text.
// Rows shorter than the header keep their trailing cells missing. Cells are
// read as stored, ignoring number formats, so a styled number such as
// "1,234.50" or "25%" still arrives as a number.
func ParseSpreadsheet(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Format: FormatSpreadsheet, Reason: "open workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Format: FormatSpreadsheet, Reason: "workbook has no sheets"}
	}

	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Format: FormatSpreadsheet, Reason: "read sheet " + sheets[0], Err: err}
	}
	if len(records) == 0 {
		return &Table{Columns: []string{}, Rows: []Row{}}, nil
	}

	header := make([]string, len(records[0]))
	cols := newColumnSet(len(header))
	for i, cell := range records[0] {
		header[i] = strings.TrimSpace(cell)
		cols.add(header[i])
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if i >= len(rec) {
				break
			}
			row[name] = coerce(strings.TrimSpace(rec[i]))
		}
		rows = append(rows, row)
	}

	return &Table{Columns: cols.names, Rows: rows}, nil
}
