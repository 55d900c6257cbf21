// Package core runs dataset analyses independent of any transport.
//
// A [Service] takes an uploaded file, normalizes its bytes, hands them to
// the engine and stores the resulting report. Web handlers and the batch
// CLI both go through it.
//
// # Upload Flow
//
//  1. Acquire a slot from the [UploadLimiter]
//  2. Read the body, rejecting anything over the configured size
//  3. Strip a UTF-8 BOM and replace invalid UTF-8 (text formats only)
//  4. Pick a parse hint from the file extension unless one is given
//  5. Parse and analyze via engine.Ingest
//  6. Build the report document and save it to the store
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError].
// Each message carries a support code:
//
//   - FILE001-FILE006: upload problems (size, parse, missing, empty, format)
//   - UPL002-UPL005: capacity, cancellation and timeouts
//   - RPT001: unknown report id
//   - RATE001: request throttling
//   - ERR000: anything else
package core
