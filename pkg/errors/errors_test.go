package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeOutOfRange, "rank %d outside [0, %d)", 7, 6)

	if err.Code != ErrCodeOutOfRange {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeOutOfRange)
	}

	if err.Message != "rank 7 outside [0, 6)" {
		t.Errorf("Message = %v, want %v", err.Message, "rank 7 outside [0, 6)")
	}

	expected := "OUT_OF_RANGE: rank 7 outside [0, 6)"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetwork, cause, "failed to reach redis")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("page: %w", New(ErrCodeNilInput, "items are required")),
			code:     ErrCodeNilInput,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSentinelMatchesStdlibIs(t *testing.T) {
	sentinel := Sentinel(ErrCodeOutOfRange)

	err := fmt.Errorf("decode: %w", New(ErrCodeOutOfRange, "rank 9 outside [0, 6)"))
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is(err, sentinel) = false, want true")
	}

	other := New(ErrCodeNilInput, "items are required")
	if errors.Is(other, sentinel) {
		t.Error("errors.Is should not match a different code")
	}

	// A target carrying a message is not a sentinel.
	if errors.Is(New(ErrCodeOutOfRange, "a"), New(ErrCodeOutOfRange, "b")) {
		t.Error("non-sentinel targets should only match by identity")
	}

	if sentinel.Error() != "OUT_OF_RANGE" {
		t.Errorf("Error() = %q, want %q", sentinel.Error(), "OUT_OF_RANGE")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeOutOfRange, "test"),
			expected: ErrCodeOutOfRange,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
		{
			name:     "sentinel",
			err:      Sentinel(ErrCodeNilInput),
			expected: "NIL_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeOutOfRange, "x"), http.StatusBadRequest},
		{New(ErrCodeNilInput, "x"), http.StatusBadRequest},
		{New(ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{New(ErrCodeInvalidFormat, "x"), http.StatusBadRequest},
		{New(ErrCodeTooLarge, "x"), http.StatusRequestEntityTooLarge},
		{New(ErrCodeNotFound, "x"), http.StatusNotFound},
		{New(ErrCodeNetwork, "x"), http.StatusBadGateway},
		{New(ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{New(ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{New(ErrCodeInternal, "x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
