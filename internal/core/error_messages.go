package core

// # Error Codes Reference
//
// User-facing messages carry a code for support reference. Codes are grouped
// by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Input file could not be read
//	          Patterns: "unreadable input file"
//	FILE002 - Output file could not be written
//	          Patterns: "unwritable output file"
//	FILE003 - Input is not a spreadsheet we can open
//	          Patterns: "open workbook", "workbook has no sheets"
//	FILE004 - Upload too large
//	          Patterns: "request body too large"
//
// # Parse Errors (PARSE001-PARSE099)
//
//	PARSE001 - No cards were found in the list
//	           Patterns: "no cards found"
//	PARSE002 - No inventory rows carry a quantity
//	           Patterns: "no inventory rows"
//	PARSE003 - No set codes were given
//	           Patterns: "no set codes"
//
// # Catalog Errors (CAT001-CAT099)
//
//	CAT001 - Catalog rate limit hit
//	         Patterns: "catalog api error 429"
//	CAT002 - Catalog unavailable
//	         Patterns: "catalog api error 5", "max retries exceeded"
//	CAT003 - Catalog unreachable
//	         Patterns: "connection refused", "no such host"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Too many runs in progress
//	         Patterns: "too many concurrent runs"
//	REQ002 - Cancelled
//	         Patterns: "context canceled"
//	REQ003 - Timed out
//	         Patterns: "context deadline exceeded"
//	RATE001 - Too many requests
//	         Patterns: "rate limit"

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSets is returned when a set-driven run is given no set codes.
	ErrNoSets = errors.New("no set codes given")

	// ErrNoInventoryRows is returned when a filled template has no quantities.
	ErrNoInventoryRows = errors.New("no inventory rows with quantities found")
)

// UserMessage is a user-facing description of an error.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is checked in order; the first substring match wins.
var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "unreadable input file",
		msg: UserMessage{
			Message: "The input file could not be read",
			Action:  "Check the path and file permissions",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unwritable output file",
		msg: UserMessage{
			Message: "The output file could not be written",
			Action:  "Check that the destination directory exists and is writable",
			Code:    "FILE002",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The spreadsheet could not be opened",
			Action:  "Save the file as .xlsx or export it as CSV",
			Code:    "FILE003",
		},
	},
	{
		pattern: "workbook has no sheets",
		msg: UserMessage{
			Message: "The spreadsheet has no sheets",
			Action:  "Put the card list on the first sheet",
			Code:    "FILE003",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The uploaded list is too large",
			Action:  "Split the list into smaller files",
			Code:    "FILE004",
		},
	},

	// Parse errors
	{
		pattern: "no cards found",
		msg: UserMessage{
			Message: "No cards were found in the list",
			Action:  "Run the formats command to see the supported list formats",
			Code:    "PARSE001",
		},
	},
	{
		pattern: "no inventory rows",
		msg: UserMessage{
			Message: "No rows in the inventory have a quantity",
			Action:  "Fill in the quantity column of the template",
			Code:    "PARSE002",
		},
	},
	{
		pattern: "no set codes",
		msg: UserMessage{
			Message: "No set codes were given",
			Action:  "Pass at least one set code, e.g. --sets MH3",
			Code:    "PARSE003",
		},
	},

	// Catalog errors
	{
		pattern: "catalog api error 429",
		msg: UserMessage{
			Message: "The card catalog is rate limiting requests",
			Action:  "Wait a minute, or raise CATALOG_MIN_DELAY",
			Code:    "CAT001",
		},
	},
	{
		pattern: "catalog api error 5",
		msg: UserMessage{
			Message: "The card catalog is unavailable",
			Action:  "Please try again later",
			Code:    "CAT002",
		},
	},
	{
		pattern: "max retries exceeded",
		msg: UserMessage{
			Message: "The card catalog is unavailable",
			Action:  "Please try again later",
			Code:    "CAT002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "The card catalog could not be reached",
			Action:  "Check your network connection and CATALOG_BASE_URL",
			Code:    "CAT003",
		},
	},
	{
		pattern: "no such host",
		msg: UserMessage{
			Message: "The card catalog could not be reached",
			Action:  "Check your network connection and CATALOG_BASE_URL",
			Code:    "CAT003",
		},
	},

	// Request errors
	{
		pattern: "too many concurrent runs",
		msg: UserMessage{
			Message: "The server is busy pricing other lists",
			Action:  "Please wait a moment and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Price a shorter list or try again",
			Code:    "REQ003",
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
	Action:  "Re-run with LOG_LEVEL=debug for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Matching is case-insensitive; the first pattern found wins.
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

// FormatUserError creates "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
