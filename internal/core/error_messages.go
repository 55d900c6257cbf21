package core

// error_messages.go maps technical errors to messages shown to users.
//
// Codes by category:
//
//	FILE001 - File too large          (ErrFileTooLarge)
//	FILE002 - File could not be read  (any engine.ParseError not listed below)
//	FILE004 - No file selected        (ErrNoFile)
//	FILE005 - File is empty           (engine.ErrEmptyPayload)
//	FILE006 - Unsupported file type   (engine.ErrUnsupportedFormat)
//	UPL002  - System busy             (ErrTooManyUploads)
//	UPL004  - Request cancelled       (context.Canceled)
//	UPL005  - Request timed out       (context.DeadlineExceeded)
//	RPT001  - Report not found        (store.ErrReportNotFound)
//	RATE001 - Too many requests       ("rate limit" in the message)
//	DB004   - Archive unavailable     ("connection refused" in the message)
//	ERR000  - Unknown error
//
// Sentinel matches are checked with errors.Is before falling back to
// case-insensitive substring patterns. The first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/datalens/internal/engine"
	"github.com/JonMunkholm/datalens/internal/store"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

var (
	msgTooLarge = UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Upload a smaller file or remove unneeded rows",
		Code:    "FILE001",
	}
	msgParse = UserMessage{
		Message: "The file could not be parsed",
		Action:  "Check that the file is well-formed CSV, TSV, JSON or XLSX",
		Code:    "FILE002",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Choose a file to analyze",
		Code:    "FILE004",
	}
	msgEmpty = UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a file with a header and at least one row",
		Code:    "FILE005",
	}
	msgUnsupported = UserMessage{
		Message: "This file type is not supported",
		Action:  "Upload a .csv, .tsv, .json or .xlsx file",
		Code:    "FILE006",
	}
	msgBusy = UserMessage{
		Message: "System is busy processing other uploads",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}
	msgReportNotFound = UserMessage{
		Message: "Report not found",
		Action:  "The report may have expired. Analyze the file again",
		Code:    "RPT001",
	}
)

// sentinelMessages is checked in order with errors.Is. Specific parse
// causes come before the generic parse fallback in MapError.
var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{ErrNoFile, msgNoFile},
	{ErrFileTooLarge, msgTooLarge},
	{engine.ErrEmptyPayload, msgEmpty},
	{engine.ErrUnsupportedFormat, msgUnsupported},
	{ErrTooManyUploads, msgBusy},
	{store.ErrReportNotFound, msgReportNotFound},
	{context.DeadlineExceeded, msgTimeout},
	{context.Canceled, msgCancelled},
}

// errorPatterns catches errors that arrive without a sentinel, such as
// driver errors or messages from middleware.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
	{"connection refused", UserMessage{
		Message: "Report archive is unavailable",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"context deadline exceeded", msgTimeout},
	{"context canceled", msgCancelled},
}

// defaultMessage is returned when nothing matches (ERR000). Check the
// server logs for the technical error behind it.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error yields the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.target) {
			return s.msg
		}
	}
	if engine.IsParseError(err) {
		return msgParse
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	return err != nil && MapError(err).Code != defaultMessage.Code
}
