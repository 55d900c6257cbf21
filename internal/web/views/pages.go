package views

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/datalens/internal/report"
	"github.com/JonMunkholm/datalens/internal/store"
	"github.com/a-h/templ"
)

// IndexPage is the data behind the upload form.
type IndexPage struct {
	Recent      []store.Entry
	MaxFileSize int64
	Extensions  []string
	Alert       *Alert
}

// Index renders the upload form and the recent reports list.
func Index(page IndexPage) templ.Component {
	return Layout("Upload", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.printf(`<h1>Data Analyzer</h1>`)
		p.printf(`<p>Upload a dataset to get descriptive statistics and insights.</p>`)
		if page.Alert != nil {
			p.alert(*page.Alert)
		}

		accept := strings.Join(page.Extensions, ",")
		p.printf(`<form method="post" action="/analyze" enctype="multipart/form-data">`)
		p.printf(`<p><input type="file" name="file" accept="%s" required></p>`, esc(accept))
		p.printf(`<p><label>Format <select name="format">`)
		p.printf(`<option value="">From extension</option>`)
		p.printf(`<option value="delimited">Delimited text</option>`)
		p.printf(`<option value="structured">JSON records</option>`)
		p.printf(`<option value="spreadsheet">Spreadsheet</option>`)
		p.printf(`</select></label> `)
		p.printf(`<label>Delimiter <input name="delimiter" size="3" maxlength="3" placeholder=","></label></p>`)
		p.printf(`<p class="muted">Accepted: %s, up to %s.</p>`, esc(accept), esc(byteSize(page.MaxFileSize)))
		p.printf(`<button type="submit">Analyze</button> <a href="/sample">or use sample data</a></form>`)

		if len(page.Recent) > 0 {
			p.printf(`<h2>Recent reports</h2><table><thead><tr>`)
			p.printf(`<th>File</th><th>Rows</th><th>Columns</th><th>Analyzed</th></tr></thead><tbody>`)
			for _, e := range page.Recent {
				p.printf(`<tr><td><a href="/reports/%s">%s</a></td><td class="num">%d</td><td class="num">%d</td><td>%s</td></tr>`,
					url.PathEscape(e.ID), esc(e.FileName), e.Rows, e.Columns,
					esc(e.CreatedAt.UTC().Format(time.RFC3339)))
			}
			p.printf(`</tbody></table>`)
		}
		return p.err
	}))
}

// Results renders the analysis of a freshly uploaded dataset, showing at
// most pageRows rows of data.
func Results(doc *report.Document, pageRows int) templ.Component {
	return Layout(doc.FileName, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.printf(`<h1>%s</h1>`, esc(doc.FileName))
		p.printf(`<p class="muted">Analyzed %s</p>`, esc(doc.AnalysisDate))

		p.printf(`<div class="cards">`)
		p.printf(`<div class="card"><strong>%d</strong>Rows</div>`, doc.DataOverview.Rows)
		p.printf(`<div class="card"><strong>%d</strong>Columns</div>`, doc.DataOverview.Columns)
		p.printf(`<div class="card"><strong>%d</strong>Numeric columns</div>`, len(doc.NumericColumns))
		p.printf(`</div>`)

		downloads(p, doc.ID)
		statistics(p, doc)

		p.printf(`<h2>Insights</h2><ul>`)
		for _, s := range doc.Insights {
			p.printf(`<li>%s</li>`, esc(s))
		}
		p.printf(`</ul>`)

		dataPreview(p, doc, pageRows)
		return p.err
	}))
}

// ReportPage shows a stored report rendered from Markdown.
func ReportPage(doc *report.Document, body []byte) templ.Component {
	return Layout(doc.FileName, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		downloads(p, doc.ID)
		if p.err != nil {
			return p.err
		}
		return templ.Raw(string(body)).Render(ctx, w)
	}))
}

func downloads(p *printer, id string) {
	base := "/api/reports/" + url.PathEscape(id)
	p.printf(`<p><a href="%s">Download JSON</a> <a href="%s/xlsx">Download Excel</a> <a href="%s/markdown">Download Markdown</a></p>`,
		base, base, base)
}

func statistics(p *printer, doc *report.Document) {
	cols := doc.StatisticColumns()
	if len(cols) == 0 {
		return
	}
	p.printf(`<h2>Statistics</h2><table><thead><tr>`)
	p.printf(`<th>Column</th><th>Count</th><th>Mean</th><th>Median</th><th>Std</th><th>Min</th><th>Max</th>`)
	p.printf(`</tr></thead><tbody>`)
	for _, col := range cols {
		s := doc.Statistics[col]
		p.printf(`<tr><td>%s</td><td class="num">%d</td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td><td class="num">%s</td></tr>`,
			esc(col), s.Count, fixed2(s.Mean), fixed2(s.Median), fixed2(s.Std), num(s.Min), num(s.Max))
	}
	p.printf(`</tbody></table>`)
}

func dataPreview(p *printer, doc *report.Document, pageRows int) {
	if len(doc.Columns) == 0 || len(doc.Data) == 0 {
		return
	}
	rows := doc.Data
	if pageRows > 0 && len(rows) > pageRows {
		rows = rows[:pageRows]
	}

	p.printf(`<h2>Data preview</h2><p class="muted">First %d of %d rows</p><table><thead><tr>`,
		len(rows), doc.DataOverview.Rows)
	for _, col := range doc.Columns {
		p.printf(`<th>%s</th>`, esc(col))
	}
	p.printf(`</tr></thead><tbody>`)
	for _, row := range rows {
		p.printf(`<tr>`)
		for _, col := range doc.Columns {
			v, ok := row[col]
			switch {
			case !ok:
				p.printf(`<td></td>`)
			case v.IsNumber():
				p.printf(`<td class="num">%s</td>`, esc(v.String()))
			default:
				p.printf(`<td>%s</td>`, esc(v.String()))
			}
		}
		p.printf(`</tr>`)
	}
	p.printf(`</tbody></table>`)
}
