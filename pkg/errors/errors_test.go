package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeInvalidTable, "column %q has %d values, want %d", "region", 3, 4),
			want: `INVALID_TABLE: column "region" has 3 values, want 4`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInvalidInput, fs.ErrNotExist, "open %s", "sales.csv"),
			want: "INVALID_INPUT: open sales.csv: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeInvalidInput, fs.ErrNotExist, "open sales.csv")

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should see the wrapped cause")
	}
	if errors.Unwrap(err) != fs.ErrNotExist {
		t.Errorf("Unwrap() = %v", errors.Unwrap(err))
	}
}

func TestIs(t *testing.T) {
	notFound := New(ErrCodeNodeNotFound, "node 12 does not exist")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct", notFound, ErrCodeNodeNotFound, true},
		{"other code", notFound, ErrCodeViewNotFound, false},
		{"through fmt wrap", fmt.Errorf("apply expand: %w", notFound), ErrCodeNodeNotFound, true},
		{"outer code wins", Wrap(ErrCodeInternal, notFound, "layout"), ErrCodeNodeNotFound, false},
		{"plain error", errors.New("boom"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{
			name:    "settings",
			err:     New(ErrCodeInvalidSettings, "branch_limit must be at least 1"),
			code:    ErrCodeInvalidSettings,
			message: "branch_limit must be at least 1",
		},
		{
			name:    "wrapped by caller",
			err:     fmt.Errorf("load: %w", New(ErrCodeInvalidFormat, "unknown format %q", "xlsx")),
			code:    ErrCodeInvalidFormat,
			message: `unknown format "xlsx"`,
		},
		{
			name:    "plain",
			err:     errors.New("disk full"),
			code:    "",
			message: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidTable, http.StatusBadRequest},
		{ErrCodeInvalidSettings, http.StatusBadRequest},
		{ErrCodeInvalidFormat, http.StatusBadRequest},
		{ErrCodeInvalidPath, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeNodeNotFound, http.StatusNotFound},
		{ErrCodeViewNotFound, http.StatusNotFound},
		{ErrCodeUnsupported, http.StatusNotImplemented},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(tt.code); got != tt.want {
				t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}
