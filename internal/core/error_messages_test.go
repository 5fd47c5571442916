package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "unreadable input",
			err:         fmt.Errorf("%w: cards.txt: no such file or directory", ErrUnreadableInput),
			wantCode:    "FILE001",
			wantMessage: "The input file could not be read",
		},
		{
			name:        "unwritable output",
			err:         fmt.Errorf("%w: out.csv: permission denied", ErrUnwritableOutput),
			wantCode:    "FILE002",
			wantMessage: "The output file could not be written",
		},
		{
			name:        "no cards",
			err:         ErrNoCards,
			wantCode:    "PARSE001",
			wantMessage: "No cards were found in the list",
		},
		{
			name:        "no inventory rows",
			err:         ErrNoInventoryRows,
			wantCode:    "PARSE002",
			wantMessage: "No rows in the inventory have a quantity",
		},
		{
			name:        "catalog throttled",
			err:         errors.New("catalog api error 429: Too Many Requests"),
			wantCode:    "CAT001",
			wantMessage: "The card catalog is rate limiting requests",
		},
		{
			name:        "catalog down",
			err:         errors.New("catalog api error 503: Service Unavailable"),
			wantCode:    "CAT002",
			wantMessage: "The card catalog is unavailable",
		},
		{
			name:        "unreachable",
			err:         errors.New("dial tcp 127.0.0.1:1: connect: connection refused"),
			wantCode:    "CAT003",
			wantMessage: "The card catalog could not be reached",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("NO CARDS FOUND IN INPUT"),
			wantCode:    "PARSE001",
			wantMessage: "No cards were found in the list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrNoSets)

	expected := "No set codes were given (Code: PARSE003). Pass at least one set code, e.g. --sets MH3"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: ErrNoCards, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("write: %w", ErrUnwritableOutput)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The output file could not be written" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrUnwritableOutput) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}
