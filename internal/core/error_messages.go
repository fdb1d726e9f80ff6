// Package core provides the business logic for price-list aggregation.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Error codes are grouped by category:
//
// # Price List Errors (PRC001-PRC099)
//
//	PRC001 - No prices: No usable price rows were found
//	         Action: Check that the directory holds *price*.csv files with name, price and weight columns
//	         Patterns: "no usable price rows"
//
//	PRC002 - Not loaded: Price list has not been loaded yet
//	         Action: Reload the price list
//	         Patterns: "price list not loaded"
//
//	PRC003 - Directory: Price directory cannot be read
//	         Action: Check the configured PRICES_DIR
//	         Patterns: "reading directory"
//
//	PRC004 - Busy: Another load is still running
//	         Action: Retry once the running load finishes
//	         Patterns: "load already in progress"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum size limit
//	FILE002 - Invalid CSV: File is not a valid CSV
//	FILE003 - Encoding error: File is not in the declared encoding
//	FILE004 - Empty file: The file has no header row
//	FILE005 - Unreadable file: The file could not be read
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Missing column: No header matched a required column
//	VAL002 - Invalid value: Price or weight is not usable
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Unknown format: Export format is not supported
//
// # Request Errors (REQ001-REQ099, RATE001)
//
//	REQ001 - Request cancelled
//	REQ002 - Request timeout
//	RATE001 - Rate limited
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are defined
// before general ones: an unreadable file caused by bad encoding reports
// FILE003, not FILE005.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Price List Errors (PRC001-PRC004)
	// =========================================================================
	{
		pattern: "no usable price rows",
		msg: UserMessage{
			Message: "No usable price rows were found",
			Action:  "Check that the directory holds *price*.csv files with name, price and weight columns",
			Code:    "PRC001",
		},
	},
	{
		pattern: "price list not loaded",
		msg: UserMessage{
			Message: "Price list has not been loaded yet",
			Action:  "Reload the price list",
			Code:    "PRC002",
		},
	},
	{
		pattern: "reading directory",
		msg: UserMessage{
			Message: "Price directory cannot be read",
			Action:  "Check the configured PRICES_DIR",
			Code:    "PRC003",
		},
	},

	{
		pattern: "load already in progress",
		msg: UserMessage{
			Message: "Another load is still running",
			Action:  "Retry once the running load finishes",
			Code:    "PRC004",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE005)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the price list or raise PRICES_MAX_FILE_SIZE",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with one header row",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File is not in the declared encoding",
			Action:  "Save the file as UTF-8 or set PRICES_ENCODING",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file has no header row",
			Action:  "Add a header row with name, price and weight columns",
			Code:    "FILE004",
		},
	},
	{
		pattern: "unreadable file",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Check file permissions",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL002)
	// =========================================================================
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "No header matched a required column",
			Action:  "Name the columns with a known synonym, e.g. Наименование, Цена, Вес",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid value",
		msg: UserMessage{
			Message: "Price or weight is not usable",
			Action:  "Use positive decimal numbers for price and weight",
			Code:    "VAL002",
		},
	},

	// =========================================================================
	// Export Errors (EXP001)
	// =========================================================================
	{
		pattern: "unknown export format",
		msg: UserMessage{
			Message: "Export format is not supported",
			Action:  "Use one of: html, csv, xlsx, json",
			Code:    "EXP001",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ002, RATE001)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again later",
			Code:    "REQ002",
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

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
