package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSpec, "invalid node line: %q", "- broken")

	if err.Code != ErrCodeInvalidSpec {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidSpec)
	}
	if err.Message != `invalid node line: "- broken"` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestError_WithCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ErrCodeInternal, cause, "render svg")

	want := "INTERNAL_ERROR: render svg: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeUnknownNode, "edge a->b references unknown node")

	if !Is(err, ErrCodeUnknownNode) {
		t.Error("Is(err, ErrCodeUnknownNode) = false, want true")
	}
	if Is(err, ErrCodeInvalidSpec) {
		t.Error("Is(err, ErrCodeInvalidSpec) = true, want false")
	}
	if Is(errors.New("plain"), ErrCodeUnknownNode) {
		t.Error("Is(plain, code) = true, want false")
	}
}

func TestIs_WrappedChain(t *testing.T) {
	inner := New(ErrCodeLayoutDiverged, "relaxation budget exhausted")
	outer := fmt.Errorf("compute layout: %w", inner)

	if !Is(outer, ErrCodeLayoutDiverged) {
		t.Error("Is should find code through wrapped chain")
	}
	if GetCode(outer) != ErrCodeLayoutDiverged {
		t.Errorf("GetCode = %q, want %q", GetCode(outer), ErrCodeLayoutDiverged)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidFormat, "invalid format: gif")
	if got := UserMessage(err); got != "invalid format: gif" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := errors.New("plain error")
	if got := UserMessage(plain); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
