// Package store keeps generated analysis reports so they can be downloaded
// again after the upload request has finished.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/datalens/internal/report"
)

// ErrReportNotFound is returned when no report exists for an id.
var ErrReportNotFound = errors.New("report not found")

// Entry is a listing row for a stored report.
type Entry struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReportStore persists report documents.
// Implementations must be safe for concurrent use.
type ReportStore interface {
	Save(ctx context.Context, doc *report.Document) error
	Get(ctx context.Context, id string) (*report.Document, error)
	// List returns at most limit entries, newest first.
	List(ctx context.Context, limit int) ([]Entry, error)
	// Purge deletes reports created before cutoff and returns how many went.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

func entryFor(doc *report.Document, createdAt time.Time) Entry {
	return Entry{
		ID:        doc.ID,
		FileName:  doc.FileName,
		Rows:      doc.DataOverview.Rows,
		Columns:   doc.DataOverview.Columns,
		CreatedAt: createdAt,
	}
}

var (
	_ ReportStore = (*MemoryStore)(nil)
	_ ReportStore = (*PostgresStore)(nil)
)
