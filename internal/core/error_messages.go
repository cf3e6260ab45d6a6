package core

// # Error Codes Reference
//
// This file maps technical errors and comparison outcomes to user-facing
// messages with a code that users can quote to support.
//
// # Input Errors (IN001-IN099)
//
//	IN001 - Missing input: both PDF documents are required
//	        Patterns: "missing input", "document is empty", "no file provided",
//	        "invalid upload form"
//
//	IN002 - Not a PDF: an upload is not a PDF document
//	        Patterns: "not a pdf", "invalid header"
//
//	IN003 - Too large: an upload exceeds the size limit
//	        Patterns: "exceeds size limit", "request body too large"
//
// # Comparison Outcomes (CMP001-CMP099)
//
//	CMP001 - No matching columns: both documents have tables but no column
//	         names correspond
//	CMP002 - No matching rows: columns correspond but no key value is shared
//	CMP003 - No common text: no line of one document resembles a line of the other
//	CMP004 - Busy: too many comparisons are running
//	CMP005 - Result not found: the result expired or never existed
//
// # Request Errors (UPL004-UPL005)
//
//	UPL004 - Request cancelled ("context canceled")
//	UPL005 - Request timed out ("context deadline exceeded")
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests ("rate limit")
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the application log for the
// original error.
//
// Patterns are matched case-insensitively with strings.Contains, first match
// wins.

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the outcomes that carry no data.
var (
	ErrMissingInput      = errors.New("missing input: both documents are required")
	ErrNoMatchingColumns = errors.New("no matching columns found in tables")
	ErrNoMatchingRows    = errors.New("no matching rows found in tables")
	ErrNoCommonText      = errors.New("no common text found")
	ErrResultNotFound    = errors.New("result not found")
)

// Err returns the sentinel error for o, or nil for OutcomeSuccess.
func (o Outcome) Err() error {
	switch o {
	case OutcomeSuccess:
		return nil
	case OutcomeMissingInput:
		return ErrMissingInput
	case OutcomeNoMatchingColumns:
		return ErrNoMatchingColumns
	case OutcomeNoMatchingRows:
		return ErrNoMatchingRows
	case OutcomeNoCommonText:
		return ErrNoCommonText
	default:
		return fmt.Errorf("unknown outcome %q", string(o))
	}
}

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgMissingInput = UserMessage{
		Message: "Please upload both PDFs",
		Action:  "Select two PDF files to compare",
		Code:    "IN001",
	}
	msgNotPDF = UserMessage{
		Message: "One of the uploads is not a PDF document",
		Action:  "Check that both files are PDFs",
		Code:    "IN002",
	}
	msgTooLarge = UserMessage{
		Message: "A file exceeds the maximum upload size",
		Action:  "Upload a smaller PDF",
		Code:    "IN003",
	}
)

var errorPatterns = []errorPattern{
	// Input
	// Size first: a form error may wrap an oversized body.
	{pattern: "exceeds size limit", msg: msgTooLarge},
	{pattern: "request body too large", msg: msgTooLarge},
	{pattern: "missing input", msg: msgMissingInput},
	{pattern: "document is empty", msg: msgMissingInput},
	{pattern: "no file provided", msg: msgMissingInput},
	{pattern: "invalid upload form", msg: msgMissingInput},
	{pattern: "not a pdf", msg: msgNotPDF},
	{pattern: "invalid header", msg: msgNotPDF},

	// Comparison outcomes
	{
		pattern: "no matching columns",
		msg: UserMessage{
			Message: "No matching columns found in tables",
			Action:  "Check that both tables share a column such as an ID",
			Code:    "CMP001",
		},
	},
	{
		pattern: "no matching rows",
		msg: UserMessage{
			Message: "The tables share columns but no rows",
			Action:  "Check that the key column holds the same values in both documents",
			Code:    "CMP002",
		},
	},
	{
		pattern: "no common text",
		msg: UserMessage{
			Message: "No common text found",
			Action:  "The documents do not appear to share any lines",
			Code:    "CMP003",
		},
	},
	{
		pattern: "too many comparisons",
		msg: UserMessage{
			Message: "System is busy comparing other documents",
			Action:  "Please wait a moment and try again",
			Code:    "CMP004",
		},
	},
	{
		pattern: "result not found",
		msg: UserMessage{
			Message: "Comparison result not found",
			Action:  "Results expire after a while. Please run the comparison again",
			Code:    "CMP005",
		},
	},

	// Request lifecycle
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try smaller documents or try again later",
			Code:    "UPL005",
		},
	},

	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. It returns
// the zero UserMessage for a nil error and ERR000 when no pattern matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// OutcomeMessage returns the user message for an outcome without data, or
// the zero UserMessage for OutcomeSuccess.
func OutcomeMessage(o Outcome) UserMessage {
	return MapError(o.Err())
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message. Error returns the
// user message; Unwrap returns the technical error.
type UserError struct {
	Err error
	Msg UserMessage
}

// NewUserError wraps err, or returns nil for a nil err.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Err: err, Msg: MapError(err)}
}

func (e *UserError) Error() string {
	return e.Msg.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}
