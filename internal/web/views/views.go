// Package views renders the HTML pages as templ components.
package views

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Alert is a user-facing error box.
type Alert struct {
	Message string
	Action  string
	Code    string
}

const styles = `
body{font-family:system-ui,sans-serif;margin:0;background:#f5f7fb;color:#1f2933}
main{max-width:72rem;margin:0 auto;padding:2rem}
h1{margin-top:0}
.cards{display:flex;gap:1rem;margin:1rem 0}
.card{background:#fff;border-radius:8px;padding:1rem 1.5rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.card strong{display:block;font-size:1.8rem}
table{border-collapse:collapse;background:#fff;width:100%;margin:1rem 0}
th,td{border:1px solid #d9e2ec;padding:.4rem .6rem;text-align:left}
td.num{text-align:right;font-variant-numeric:tabular-nums}
.alert{background:#fde8e8;border:1px solid #f8b4b4;border-radius:8px;padding:1rem;margin:1rem 0}
.muted{color:#7b8794;font-size:.9rem}
nav a{margin-right:1rem}
`

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.printf(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.printf(`<title>%s · Data Analyzer</title><style>%s</style></head><body><main>`, esc(title), styles)
		p.printf(`<nav><a href="/">Upload</a><a href="/sample">Sample data</a></nav>`)
		if p.err != nil {
			return p.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		p.printf(`</main></body></html>`)
		return p.err
	})
}

// ErrorPage shows an alert on its own.
func ErrorPage(a Alert) templ.Component {
	return Layout("Error", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.printf(`<h1>Something went wrong</h1>`)
		p.alert(a)
		p.printf(`<p><a href="/">Back to upload</a></p>`)
		return p.err
	}))
}

// printer accumulates the first write error so page bodies read linearly.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) alert(a Alert) {
	p.printf(`<div class="alert" role="alert"><strong>%s</strong>`, esc(a.Message))
	if a.Action != "" {
		p.printf(`<div>%s</div>`, esc(a.Action))
	}
	if a.Code != "" {
		p.printf(`<div class="muted">Code: %s</div>`, esc(a.Code))
	}
	p.printf(`</div>`)
}

func esc(s string) string { return templ.EscapeString(s) }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func fixed2(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

// byteSize renders n as a short human-readable size.
func byteSize(n int64) string {
	switch {
	case n >= 1<<30 && n%(1<<30) == 0:
		return fmt.Sprintf("%d GB", n>>30)
	case n >= 1<<20:
		return fmt.Sprintf("%.0f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.0f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
