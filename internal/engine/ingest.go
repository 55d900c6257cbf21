package engine

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format names the payload encoding handed to Ingest.
type Format string

const (
	FormatDelimited   Format = "delimited"
	FormatStructured  Format = "structured"
	FormatSpreadsheet Format = "spreadsheet"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatDelimited, FormatStructured, FormatSpreadsheet:
		return true
	}
	return false
}

// Hint tells Ingest how to parse a payload.
type Hint struct {
	Format    Format
	Delimiter string // delimited only; empty means DefaultDelimiter
}

// extensionHints maps lowercase file extensions to parse hints.
var extensionHints = map[string]Hint{
	".csv":  {Format: FormatDelimited, Delimiter: ","},
	".tsv":  {Format: FormatDelimited, Delimiter: "\t"},
	".json": {Format: FormatStructured},
	".xlsx": {Format: FormatSpreadsheet},
}

// HintForFile picks a hint from the file extension (case-insensitive).
func HintForFile(name string) (Hint, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if h, ok := extensionHints[ext]; ok {
		return h, nil
	}
	return Hint{}, &ParseError{Reason: "extension " + quoteExt(ext), Err: ErrUnsupportedFormat}
}

// SupportedExtensions lists the extensions HintForFile accepts.
func SupportedExtensions() []string {
	return []string{".csv", ".tsv", ".json", ".xlsx"}
}

func quoteExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return `"` + ext + `"`
}

// Result pairs a table with the summary computed from it.
type Result struct {
	Table   *Table
	Summary *AnalysisSummary
}

// Ingest parses payload according to hint and analyzes the resulting table.
// It either returns a complete Result or a *ParseError.
func Ingest(payload []byte, hint Hint) (*Result, error) {
	if !hint.Format.Valid() {
		return nil, &ParseError{Format: hint.Format, Reason: "unknown format", Err: ErrUnsupportedFormat}
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, &ParseError{Format: hint.Format, Reason: "no data", Err: ErrEmptyPayload}
	}

	var (
		table *Table
		err   error
	)
	switch hint.Format {
	case FormatDelimited:
		table = ParseDelimitedText(string(payload), hint.Delimiter)
	case FormatStructured:
		table, err = ParseStructuredRecords(string(payload))
	case FormatSpreadsheet:
		table, err = ParseSpreadsheet(payload)
	}
	if err != nil {
		return nil, err
	}

	return &Result{Table: table, Summary: ComputeAnalysis(table)}, nil
}
