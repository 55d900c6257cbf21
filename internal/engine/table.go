package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the type of a cell value.
type Kind uint8

const (
	KindText Kind = iota
	KindNumber
	KindBool
	KindNull
)

// String returns the kind name used in logs and JSON.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return "text"
	}
}

// Value is a single scalar cell. The zero value is the empty text cell.
type Value struct {
	kind Kind
	num  float64
	text string
	b    bool
}

// Number returns a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a text cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a boolean cell.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Null returns an explicit null cell.
func Null() Value { return Value{kind: KindNull} }

// Kind reports the cell type.
func (v Value) Kind() Kind { return v.kind }

// IsNumber reports whether the cell holds a number.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Float returns the numeric value and whether the cell is numeric.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders the cell for display.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNull:
		return ""
	default:
		return v.text
	}
}

// MarshalJSON encodes numbers as JSON numbers and everything else as its
// natural JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindNull:
		return []byte("null"), nil
	default:
		return json.Marshal(v.text)
	}
}

// coerce converts one raw field to a cell. The decision is made per value,
// so a column may mix numbers and text.
func coerce(field string) Value {
	if f, ok := parseNumber(field); ok {
		return Number(f)
	}
	return Text(field)
}

// parseNumber accepts finite decimal or scientific notation after trimming.
// Empty strings, NaN and infinities are not numbers.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Row maps column name to cell. A column absent from the map is a missing
// cell, not an error.
type Row map[string]Value

// Get returns the cell for column and whether it is present.
func (r Row) Get(column string) (Value, bool) {
	v, ok := r[column]
	return v, ok
}

// Table is an ordered set of rows sharing an ordered column list.
// Every row's keys are a subset of Columns.
type Table struct {
	Columns []string
	Rows    []Row
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColumnCount returns the number of declared columns.
func (t *Table) ColumnCount() int { return len(t.Columns) }

// Head returns at most n rows from the start of the table.
func (t *Table) Head(n int) []Row {
	if n < 0 || n >= len(t.Rows) {
		return t.Rows
	}
	return t.Rows[:n]
}

// columnSet tracks unique column names in first-seen order.
type columnSet struct {
	names []string
	seen  map[string]struct{}
}

func newColumnSet(capacity int) *columnSet {
	return &columnSet{
		names: make([]string, 0, capacity),
		seen:  make(map[string]struct{}, capacity),
	}
}

func (c *columnSet) add(name string) {
	if _, ok := c.seen[name]; ok {
		return
	}
	c.seen[name] = struct{}{}
	c.names = append(c.names, name)
}

func (c *columnSet) has(name string) bool {
	_, ok := c.seen[name]
	return ok
}

// UnmarshalJSON restores a cell written by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null()
	case float64:
		*v = Number(x)
	case string:
		*v = Text(x)
	case bool:
		*v = Bool(x)
	default:
		*v = Text(string(data))
	}
	return nil
}
