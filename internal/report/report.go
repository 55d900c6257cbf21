// Package report builds the downloadable analysis report and renders it as
// JSON, an XLSX workbook or Markdown.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/JonMunkholm/datalens/internal/engine"
	"github.com/google/uuid"
)

// DefaultPreviewRows is how many table rows a report embeds.
const DefaultPreviewRows = 100

// DefaultFileName is the download name used for JSON reports.
const DefaultFileName = "data-analysis-report.json"

// dateLayout matches ISO-8601 with millisecond precision in UTC.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// Overview holds the full table dimensions, not the previewed slice.
type Overview struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// Document is the export artifact for one analysis. It is plain data and
// safe to share once built.
type Document struct {
	ID             string                          `json:"id"`
	FileName       string                          `json:"fileName"`
	AnalysisDate   string                          `json:"analysisDate"`
	DataOverview   Overview                        `json:"dataOverview"`
	Columns        []string                        `json:"columns"`
	NumericColumns []string                        `json:"numericColumns"`
	Statistics     map[string]engine.ColumnDisplay `json:"statistics"`
	Insights       []string                        `json:"insights"`
	Data           []engine.Row                    `json:"data"`
}

// Options controls Build.
type Options struct {
	ID          string    // report id; generated when empty
	Now         time.Time // analysis timestamp; time.Now when zero
	PreviewRows int       // rows embedded; DefaultPreviewRows when <= 0
}

// Build assembles the report for an ingestion result.
func Build(fileName string, res *engine.Result, opts Options) *Document {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}

	head := res.Table.Head(opts.PreviewRows)
	data := make([]engine.Row, len(head))
	copy(data, head)

	return &Document{
		ID:           opts.ID,
		FileName:     fileName,
		AnalysisDate: opts.Now.UTC().Format(dateLayout),
		DataOverview: Overview{
			Rows:    res.Table.RowCount(),
			Columns: res.Table.ColumnCount(),
		},
		Columns:        append([]string(nil), res.Table.Columns...),
		NumericColumns: append([]string(nil), res.Summary.NumericColumns...),
		Statistics:     res.Summary.DisplayStatistics(),
		Insights:       append([]string(nil), res.Summary.Insights...),
		Data:           data,
	}
}

// StatisticColumns returns the columns that have statistics, in table order.
// Columns not found in NumericColumns follow in sorted order.
func (d *Document) StatisticColumns() []string {
	out := make([]string, 0, len(d.Statistics))
	seen := make(map[string]bool, len(d.Statistics))
	for _, col := range d.NumericColumns {
		if _, ok := d.Statistics[col]; ok && !seen[col] {
			out = append(out, col)
			seen[col] = true
		}
	}
	var rest []string
	for col := range d.Statistics {
		if !seen[col] {
			rest = append(rest, col)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// WriteJSON writes the indented JSON form of d.
func WriteJSON(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// Decode reads a report written by WriteJSON.
func Decode(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &d, nil
}
