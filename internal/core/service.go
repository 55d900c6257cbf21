package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/datalens/internal/engine"
	"github.com/JonMunkholm/datalens/internal/logging"
	"github.com/JonMunkholm/datalens/internal/report"
	"github.com/JonMunkholm/datalens/internal/store"
)

// Defaults applied by NewService when Options leaves a field zero.
const (
	DefaultMaxFileSize   int64 = 10 << 20
	DefaultUploadTimeout       = 2 * time.Minute
	DefaultRecentLimit         = 10
)

// Options tunes a Service.
type Options struct {
	MaxFileSize   int64         // upload size limit in bytes
	UploadTimeout time.Duration // bound on one analysis, including the read
	PreviewRows   int           // rows embedded in each report
	RecentLimit   int           // entries returned by Recent
}

// Analysis is the outcome of one successful upload.
type Analysis struct {
	Report  *report.Document
	Table   *engine.Table
	Summary *engine.AnalysisSummary
}

// Service runs analyses and keeps their reports.
type Service struct {
	store   store.ReportStore
	limiter *UploadLimiter
	opts    Options
	now     func() time.Time
}

// NewService wires a store and limiter. A nil limiter gets the defaults.
func NewService(st store.ReportStore, limiter *UploadLimiter, opts Options) *Service {
	if limiter == nil {
		limiter = NewUploadLimiter(0, 0)
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = DefaultUploadTimeout
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = report.DefaultPreviewRows
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	return &Service{store: st, limiter: limiter, opts: opts, now: time.Now}
}

// Limiter exposes the upload limiter for status reporting and shutdown.
func (s *Service) Limiter() *UploadLimiter { return s.limiter }

// MaxFileSize returns the configured upload limit in bytes.
func (s *Service) MaxFileSize() int64 { return s.opts.MaxFileSize }

// Analyze parses body with the format implied by fileName's extension.
func (s *Service) Analyze(ctx context.Context, fileName string, body io.Reader) (*Analysis, error) {
	hint, err := engine.HintForFile(fileName)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeAs(ctx, fileName, body, hint)
}

// AnalyzeAs parses body with an explicit hint, ignoring the extension.
func (s *Service) AnalyzeAs(ctx context.Context, fileName string, body io.Reader, hint engine.Hint) (*Analysis, error) {
	if body == nil {
		return nil, ErrNoFile
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.opts.UploadTimeout)
	defer cancel()

	ip, _ := ClientFromContext(ctx)
	log := logging.WithFields(ctx, "file", fileName, "format", hint.Format, "client_ip", ip)
	start := s.now()

	payload, err := readPayload(body, s.opts.MaxFileSize)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := engine.Ingest(normalizeText(payload, hint.Format), hint)
	if err != nil {
		log.Warn("analysis rejected", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := report.Build(fileName, res, report.Options{
		Now:         s.now(),
		PreviewRows: s.opts.PreviewRows,
	})
	if err := s.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	log.Info("analysis complete",
		"report_id", doc.ID,
		"bytes", len(payload),
		"rows", res.Table.RowCount(),
		"columns", res.Table.ColumnCount(),
		"numeric_columns", res.Summary.NumericColumnCount,
		"duration", s.now().Sub(start),
	)

	return &Analysis{Report: doc, Table: res.Table, Summary: res.Summary}, nil
}

// Sample analyzes the built-in sales dataset.
func (s *Service) Sample(ctx context.Context) (*Analysis, error) {
	return s.AnalyzeAs(ctx, SampleFileName, bytes.NewReader(sampleSalesData),
		engine.Hint{Format: engine.FormatStructured})
}

// Report loads a stored report by id.
func (s *Service) Report(ctx context.Context, id string) (*report.Document, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", id, err)
	}
	return doc, nil
}

// Recent lists the newest stored reports, up to the configured limit.
func (s *Service) Recent(ctx context.Context) ([]store.Entry, error) {
	entries, err := s.store.List(ctx, s.opts.RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return entries, nil
}
