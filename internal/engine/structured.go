package engine

import (
	"math"

	"github.com/tidwall/gjson"
)

// ParseStructuredRecords parses a JSON document holding either one record
// or an array of records.
//
// Columns come from the keys of the first record, in document order. Later
// records are not reconciled: keys they lack are missing cells and keys the
// first record lacks are dropped. JSON strings are never coerced to numbers.
// Elements that are not objects become empty rows.
func ParseStructuredRecords(text string) (*Table, error) {
	if !gjson.Valid(text) {
		return nil, &ParseError{Format: FormatStructured, Reason: "invalid JSON"}
	}

	doc := gjson.Parse(text)
	var records []gjson.Result
	if doc.IsArray() {
		records = doc.Array()
	} else {
		records = []gjson.Result{doc}
	}

	cols := newColumnSet(0)
	if len(records) > 0 && records[0].IsObject() {
		records[0].ForEach(func(key, _ gjson.Result) bool {
			cols.add(key.Str)
			return true
		})
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(cols.names))
		if rec.IsObject() {
			rec.ForEach(func(key, val gjson.Result) bool {
				if cols.has(key.Str) {
					row[key.Str] = jsonValue(val)
				}
				return true
			})
		}
		rows = append(rows, row)
	}

	return &Table{Columns: cols.names, Rows: rows}, nil
}

// jsonValue maps a JSON scalar to a cell. Nested arrays and objects are
// kept as their raw JSON text.
func jsonValue(r gjson.Result) Value {
	switch r.Type {
	case gjson.Number:
		if math.IsInf(r.Num, 0) {
			return Text(r.Raw)
		}
		return Number(r.Num)
	case gjson.String:
		return Text(r.Str)
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	case gjson.Null:
		return Null()
	default:
		return Text(r.Raw)
	}
}
