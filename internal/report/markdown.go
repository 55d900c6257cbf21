package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownPreviewRows caps the data table in the Markdown rendering.
const MarkdownPreviewRows = 10

// MarkdownFileName is the download name used for Markdown reports.
const MarkdownFileName = "data-analysis-report.md"

// Markdown renders a human-readable summary of d.
func Markdown(d *Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Analysis of %s\n\n", escapeCell(d.FileName))
	fmt.Fprintf(&b, "_Generated %s_\n\n", d.AnalysisDate)
	fmt.Fprintf(&b, "- **Rows:** %d\n", d.DataOverview.Rows)
	fmt.Fprintf(&b, "- **Columns:** %d\n", d.DataOverview.Columns)
	fmt.Fprintf(&b, "- **Numeric columns:** %d\n\n", len(d.Statistics))

	b.WriteString("## Insights\n\n")
	for _, insight := range d.Insights {
		fmt.Fprintf(&b, "- %s\n", insight)
	}
	b.WriteString("\n")

	if cols := d.StatisticColumns(); len(cols) > 0 {
		b.WriteString("## Statistics\n\n")
		b.WriteString("| Column | Count | Mean | Median | Std | Min | Max |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
		for _, col := range cols {
			s := d.Statistics[col]
			fmt.Fprintf(&b, "| %s | %d | %.2f | %.2f | %.2f | %s | %s |\n",
				escapeCell(col), s.Count, s.Mean, s.Median, s.Std, formatFloat(s.Min), formatFloat(s.Max))
		}
		b.WriteString("\n")
	}

	if len(d.Columns) > 0 && len(d.Data) > 0 {
		n := len(d.Data)
		if n > MarkdownPreviewRows {
			n = MarkdownPreviewRows
		}
		fmt.Fprintf(&b, "## First %d rows\n\n", n)

		header := make([]string, len(d.Columns))
		sep := make([]string, len(d.Columns))
		for i, col := range d.Columns {
			header[i] = escapeCell(col)
			sep[i] = "---"
		}
		fmt.Fprintf(&b, "| %s |\n|%s|\n", strings.Join(header, " | "), strings.Join(sep, "|"))

		for _, row := range d.Data[:n] {
			cells := make([]string, len(d.Columns))
			for i, col := range d.Columns {
				if v, ok := row[col]; ok {
					cells[i] = escapeCell(v.String())
				}
			}
			fmt.Fprintf(&b, "| %s |\n", strings.Join(cells, " | "))
		}
	}

	return b.String()
}

// HTML renders the Markdown summary of d to an HTML fragment.
func HTML(d *Document) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return markdown.ToHTML([]byte(Markdown(d)), p, r)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var cellEscaper = strings.NewReplacer(
	"|", `\|`,
	"\n", " ",
	"\r", "",
	"<", "&lt;",
	">", "&gt;",
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
)

// escapeCell keeps user text from breaking table or inline markup.
func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}
