package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(ErrCodeInvalidFormat, "missing section %q", "UNITS")
	if got := plain.Error(); got != `INVALID_FORMAT: missing section "UNITS"` {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(ErrCodeIO, stderrors.New("disk full"), "writing %s", "chart.json")
	if got := wrapped.Error(); !strings.Contains(got, "IO_ERROR") || !strings.Contains(got, "disk full") {
		t.Errorf("wrapped Error() = %q", got)
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeDanglingReference, "missing parent")

	if !Is(err, ErrCodeDanglingReference) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeNotFound) {
		t.Error("Is() = true for wrong code")
	}
	if Is(stderrors.New("plain"), ErrCodeNotFound) {
		t.Error("Is() = true for plain error")
	}
	if Is(nil, ErrCodeNotFound) {
		t.Error("Is(nil) = true")
	}

	// Codes survive fmt wrapping.
	wrapped := fmt.Errorf("loading chart: %w", err)
	if !Is(wrapped, ErrCodeDanglingReference) {
		t.Error("Is() = false through %w chain")
	}
	if got := GetCode(wrapped); got != ErrCodeDanglingReference {
		t.Errorf("GetCode() = %q", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInternal, cause, "context")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is does not reach the cause")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeNotFound, "no chart at /tmp/x")
	if got := UserMessage(err); got != "no chart at /tmp/x" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
