package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(NotFound("gone")); got != KindNotFound {
		t.Fatalf("expected %s, got %s", KindNotFound, got)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Fatalf("expected empty kind for plain error, got %s", got)
	}
	if got := KindOf(nil); got != "" {
		t.Fatalf("expected empty kind for nil, got %s", got)
	}

	// Kind survives wrapping.
	wrapped := fmt.Errorf("context: %w", Conflict("dup"))
	if !IsKind(wrapped, KindConflict) {
		t.Fatal("expected kind to survive fmt.Errorf wrapping")
	}
}

func TestWrapErrorKeepsCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := WrapError(KindNetwork, "request failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable via errors.Is")
	}
	if err.Error() != "network: request failed: socket closed" {
		t.Fatalf("unexpected error string %q", err.Error())
	}

	bare := NewError(KindValidation, "bad input")
	if bare.Error() != "validation: bad input" {
		t.Fatalf("unexpected error string %q", bare.Error())
	}
}
