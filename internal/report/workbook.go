package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names used by WriteWorkbook.
const (
	SheetSummary    = "Summary"
	SheetStatistics = "Statistics"
	SheetData       = "Data"
)

// WorkbookFileName is the download name used for XLSX reports.
const WorkbookFileName = "data-analysis-report.xlsx"

// WriteWorkbook renders d as an XLSX workbook with summary, statistics and
// data sheets.
func WriteWorkbook(w io.Writer, d *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetStatistics); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetStatistics, err)
	}
	if _, err := f.NewSheet(SheetData); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetData, err)
	}

	summary := [][]any{
		{"File", d.FileName},
		{"Analysis date", d.AnalysisDate},
		{"Rows", d.DataOverview.Rows},
		{"Columns", d.DataOverview.Columns},
		{},
		{"Insights"},
	}
	for _, insight := range d.Insights {
		summary = append(summary, []any{insight})
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	stats := [][]any{{"Column", "Count", "Mean", "Median", "Std", "Min", "Max"}}
	for _, col := range d.StatisticColumns() {
		s := d.Statistics[col]
		stats = append(stats, []any{col, s.Count, s.Mean, s.Median, s.Std, s.Min, s.Max})
	}
	if err := writeRows(f, SheetStatistics, stats); err != nil {
		return err
	}

	data := make([][]any, 0, len(d.Data)+1)
	header := make([]any, len(d.Columns))
	for i, col := range d.Columns {
		header[i] = col
	}
	data = append(data, header)
	for _, row := range d.Data {
		cells := make([]any, len(d.Columns))
		for i, col := range d.Columns {
			v, ok := row[col]
			if !ok {
				continue
			}
			if num, isNum := v.Float(); isNum {
				cells[i] = num
			} else {
				cells[i] = v.String()
			}
		}
		data = append(data, cells)
	}
	if err := writeRows(f, SheetData, data); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
