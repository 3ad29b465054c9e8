package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidInput, "n must be at least 1, got %d", 0)
	want := "INVALID_INPUT: n must be at least 1, got 0"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeInternal, cause, "finalize round %d", 3)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is did not find wrapped cause")
	}
	if !Is(err, ErrCodeInternal) {
		t.Error("Is did not match wrapped code")
	}
	if Is(err, ErrCodeInvalidInput) {
		t.Error("Is matched wrong code")
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := New(ErrCodeBudgetExceeded, "expansion budget exhausted")
	if got := GetCode(err); got != ErrCodeBudgetExceeded {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeBudgetExceeded)
	}
	if got := UserMessage(err); got != "expansion budget exhausted" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := stderrors.New("plain")
	if got := GetCode(plain); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
	if got := UserMessage(plain); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
