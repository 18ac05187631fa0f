package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidBlock, "block %d: size must be positive", 7)

	if err.Code != ErrCodeInvalidBlock {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidBlock)
	}

	if err.Message != "block 7: size must be positive" {
		t.Errorf("Message = %v, want %v", err.Message, "block 7: size must be positive")
	}

	expected := "INVALID_BLOCK: block 7: size must be positive"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidInput, cause, "decode snapshot")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

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
			err:      New(ErrCodeInvalidState, "test"),
			code:     ErrCodeInvalidState,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidState, "test"),
			code:     ErrCodeInvalidConfig,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("layout: %w", New(ErrCodeInvalidLayer, "inner")),
			code:     ErrCodeInvalidLayer,
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

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidPalette, "test"), ErrCodeInvalidPalette},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		code       Code
		validation bool
		config     bool
	}{
		{ErrCodeInvalidInput, true, false},
		{ErrCodeInvalidState, true, false},
		{ErrCodeInvalidBlock, true, false},
		{ErrCodeInvalidReference, true, false},
		{ErrCodeInvalidLayer, true, false},
		{ErrCodeInvalidConfig, false, true},
		{ErrCodeInvalidPalette, false, true},
		{ErrCodeInvalidColor, false, true},
		{ErrCodeInvalidFormat, false, false},
		{ErrCodeInternal, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", New(tt.code, "x"))
			if got := IsValidation(err); got != tt.validation {
				t.Errorf("IsValidation() = %v, want %v", got, tt.validation)
			}
			if got := IsConfiguration(err); got != tt.config {
				t.Errorf("IsConfiguration() = %v, want %v", got, tt.config)
			}
		})
	}

	if IsValidation(errors.New("plain")) || IsConfiguration(nil) {
		t.Error("plain and nil errors must not be classified")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidState,
		ErrCodeInvalidBlock,
		ErrCodeInvalidReference,
		ErrCodeInvalidLayer,
		ErrCodeInvalidConfig,
		ErrCodeInvalidPalette,
		ErrCodeInvalidColor,
		ErrCodeInvalidFormat,
		ErrCodeInvalidKind,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
