// Command analyze runs the analysis pipeline over local files and writes
// one report per file.
//
//	analyze [-out dir] [-xlsx] [-format f] [-delimiter d] [-jobs n] file...
//
// Without -out, the JSON reports are written to stdout in argument order.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/JonMunkholm/datalens/internal/config"
	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/engine"
	"github.com/JonMunkholm/datalens/internal/logging"
	"github.com/JonMunkholm/datalens/internal/report"
	"github.com/JonMunkholm/datalens/internal/store"
	"golang.org/x/sync/errgroup"
)

type options struct {
	outDir    string
	xlsx      bool
	format    string
	delimiter string
	jobs      int
	preview   int
	maxSize   string
}

func main() {
	var opts options
	flag.StringVar(&opts.outDir, "out", "", "directory for report files (default: JSON to stdout)")
	flag.BoolVar(&opts.xlsx, "xlsx", false, "also write an Excel workbook per file (requires -out)")
	flag.StringVar(&opts.format, "format", "", "force a format: delimited, structured or spreadsheet")
	flag.StringVar(&opts.delimiter, "delimiter", "", `field delimiter for delimited input ("tab" for \t)`)
	flag.IntVar(&opts.jobs, "jobs", runtime.NumCPU(), "files analyzed in parallel")
	flag.IntVar(&opts.preview, "preview", report.DefaultPreviewRows, "rows embedded in each report")
	flag.StringVar(&opts.maxSize, "max-size", "100MB", "largest file accepted")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	slog.SetDefault(logging.New(os.Stderr, *logLevel, "text"))

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(context.Background(), opts, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(1)
	}
}

// result is the outcome for one input file.
type result struct {
	path string
	doc  *report.Document
	err  error
}

func run(ctx context.Context, opts options, paths []string, stdout io.Writer) error {
	if opts.xlsx && opts.outDir == "" {
		return fmt.Errorf("-xlsx requires -out")
	}
	if opts.jobs <= 0 {
		opts.jobs = 1
	}
	maxSize, err := config.ParseSize(opts.maxSize)
	if err != nil {
		return fmt.Errorf("-max-size: %w", err)
	}
	hint, override, err := hintFromFlags(opts)
	if err != nil {
		return err
	}
	if opts.outDir != "" {
		if err := checkOutputNames(opts.outDir, paths); err != nil {
			return err
		}
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	svc := core.NewService(
		store.NewMemoryStore(len(paths)),
		core.NewUploadLimiter(opts.jobs, time.Hour),
		core.Options{MaxFileSize: maxSize, UploadTimeout: time.Hour, PreviewRows: opts.preview},
	)

	results := make([]result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)

	for i, path := range paths {
		g.Go(func() error {
			doc, err := analyzeFile(gctx, svc, path, hint, override)
			results[i] = result{path: path, doc: doc, err: err}
			if err != nil || opts.outDir == "" {
				return nil
			}
			// Failing to write output is fatal for the whole batch.
			return writeFiles(opts, path, doc)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %s\n", r.path, core.FormatUserError(r.err))
			slog.Debug("analysis failed", "file", r.path, "error", r.err)
			continue
		}
		if opts.outDir == "" {
			if err := report.WriteJSON(stdout, r.doc); err != nil {
				return err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func hintFromFlags(opts options) (engine.Hint, bool, error) {
	delim := opts.delimiter
	if delim == "tab" {
		delim = "\t"
	}
	if opts.format == "" {
		if delim != "" {
			return engine.Hint{Format: engine.FormatDelimited, Delimiter: delim}, true, nil
		}
		return engine.Hint{}, false, nil
	}
	h := engine.Hint{Format: engine.Format(opts.format), Delimiter: delim}
	if !h.Format.Valid() {
		return engine.Hint{}, false, fmt.Errorf("unknown -format %q", opts.format)
	}
	return h, true, nil
}

func analyzeFile(ctx context.Context, svc *core.Service, path string, hint engine.Hint, override bool) (*report.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := filepath.Base(path)
	var a *core.Analysis
	if override {
		a, err = svc.AnalyzeAs(ctx, name, f, hint)
	} else {
		a, err = svc.Analyze(ctx, name, f)
	}
	if err != nil {
		return nil, err
	}
	return a.Report, nil
}

// outputBase is the report path in dir for path, without extension.
func outputBase(dir, path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, stem+".report")
}

// checkOutputNames rejects inputs whose reports would overwrite each other,
// such as a/data.csv and b/data.json.
func checkOutputNames(dir string, paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		base := outputBase(dir, p)
		if prev, ok := seen[base]; ok {
			return fmt.Errorf("%s and %s would both write %s.json", prev, p, base)
		}
		seen[base] = p
	}
	return nil
}

// writeFiles stores doc as <stem>.report.json and, when requested,
// <stem>.report.xlsx.
func writeFiles(opts options, path string, doc *report.Document) error {
	base := outputBase(opts.outDir, path)

	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, doc); err != nil {
		return err
	}
	if err := os.WriteFile(base+".json", buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", base+".json", err)
	}

	if !opts.xlsx {
		return nil
	}
	buf.Reset()
	if err := report.WriteWorkbook(&buf, doc); err != nil {
		return err
	}
	if err := os.WriteFile(base+".xlsx", buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", base+".xlsx", err)
	}
	return nil
}
