package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/datalens/internal/engine"
)

var (
	// ErrNoFile is returned when a request carries no upload.
	ErrNoFile = errors.New("no file provided")

	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readPayload reads at most limit bytes from r. A body longer than limit
// yields ErrFileTooLarge rather than a truncated payload.
func readPayload(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}

// normalizeText drops a leading UTF-8 BOM and replaces invalid UTF-8
// sequences with U+FFFD. Spreadsheets are binary and pass through as is.
func normalizeText(data []byte, format engine.Format) []byte {
	if format == engine.FormatSpreadsheet {
		return data
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	return bytes.ToValidUTF8(data, []byte("�"))
}
