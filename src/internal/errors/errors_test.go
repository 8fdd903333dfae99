package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeConfig, Message: "invalid configuration"},
			expected: "[CONFIG_ERROR] invalid configuration",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeTransport, "failed to push batch", errors.New("broken pipe")),
			expected: "[TRANSPORT_ERROR] failed to push batch: broken pipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected errors.Is to find the cause")
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeSink, Message: "test error"}
	err2 := &Error{Code: ErrCodeSink, Message: "another error"}
	err3 := &Error{Code: ErrCodeTransport, Message: "transport error"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}

	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
}

func TestHasCode(t *testing.T) {
	transport := NewTransportError("send failed", errors.New("closed"))
	wrapped := fmt.Errorf("session 3: %w", transport)

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{name: "direct match", err: transport, code: ErrCodeTransport, want: true},
		{name: "wrapped match", err: wrapped, code: ErrCodeTransport, want: true},
		{name: "different code", err: wrapped, code: ErrCodeInternal, want: false},
		{name: "plain error", err: errors.New("plain"), code: ErrCodeTransport, want: false},
		{name: "nil error", err: nil, code: ErrCodeTransport, want: false},
		{name: "joined errors", err: errors.Join(errors.New("other"), NewSinkError("write failed", nil)), code: ErrCodeSink, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	cause := errors.New("file not found")

	tests := []struct {
		name string
		err  *Error
		code ErrorCode
	}{
		{name: "config", err: NewConfigError("failed to load config", cause), code: ErrCodeConfig},
		{name: "validation", err: NewValidationError("failed to load config", cause), code: ErrCodeValidation},
		{name: "registry", err: NewRegistryError("failed to load config", cause), code: ErrCodeRegistry},
		{name: "sink", err: NewSinkError("failed to load config", cause), code: ErrCodeSink},
		{name: "transport", err: NewTransportError("failed to load config", cause), code: ErrCodeTransport},
		{name: "internal", err: NewInternalError("failed to load config", cause), code: ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Expected code %v, got %v", tt.code, tt.err.Code)
			}
			if tt.err.Message != "failed to load config" {
				t.Errorf("Expected message 'failed to load config', got %v", tt.err.Message)
			}
			if tt.err.Cause != cause {
				t.Errorf("Expected cause to be preserved")
			}
		})
	}
}
