package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSelection, "need %d objects", 2)

	if err.Code != ErrCodeInvalidSelection {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidSelection)
	}

	if err.Message != "need 2 objects" {
		t.Errorf("Message = %v, want %v", err.Message, "need 2 objects")
	}

	expected := "INVALID_SELECTION: need 2 objects"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodePersistence, cause, "save canvas")

	if err.Code != ErrCodePersistence {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePersistence)
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
			err:      New(ErrCodeInvalidSelection, "test"),
			code:     ErrCodeInvalidSelection,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidSelection, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "outer code",
			err:      Wrap(ErrCodeResourceLoad, New(ErrCodeNetwork, "inner"), "outer"),
			code:     ErrCodeResourceLoad,
			expected: true,
		},
		{
			name:     "inner code",
			err:      Wrap(ErrCodeResourceLoad, New(ErrCodeNetwork, "inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("context: %w", New(ErrCodeCycle, "loop")),
			code:     ErrCodeCycle,
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

func TestGetCodeAndUserMessage(t *testing.T) {
	err := Wrap(ErrCodeResourceLoad, errors.New("404"), "Image not found")
	if got := GetCode(err); got != ErrCodeResourceLoad {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeResourceLoad)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
	if got := UserMessage(err); got != "Image not found" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(New(ErrCodeInvalidSelection, "x")) {
		t.Error("selection error should be validation")
	}
	if !IsValidation(New(ErrCodeCycle, "x")) {
		t.Error("cycle error should be validation")
	}
	if IsValidation(New(ErrCodeResourceLoad, "x")) {
		t.Error("resource load error is not validation")
	}
}
