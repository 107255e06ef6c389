package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
)

func TestKindCodes(t *testing.T) {
	for kind, want := range map[apperr.Kind]string{
		apperr.NotFound:        "not_found",
		apperr.Forbidden:       "forbidden",
		apperr.InvalidArgument: "invalid_argument",
		apperr.Conflict:        "conflict",
		apperr.Unexpected:      "unexpected",
	} {
		if got := kind.Code(); got != want {
			t.Errorf("Code(%v): got %q, want %q", kind, got, want)
		}
	}
}

func TestKindOf(t *testing.T) {
	err := apperr.New(apperr.Conflict, "already resolved")
	if apperr.KindOf(err) != apperr.Conflict {
		t.Errorf("KindOf: got %v, want Conflict", apperr.KindOf(err))
	}
	// Kind survives wrapping by callers.
	wrapped := fmt.Errorf("handling report: %w", err)
	if apperr.KindOf(wrapped) != apperr.Conflict {
		t.Error("KindOf lost the kind through wrapping")
	}
	if apperr.KindOf(errors.New("plain")) != apperr.Unexpected {
		t.Error("plain errors should classify as Unexpected")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Wrap(cause, "load group")
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if err.Error() != "load group: connection reset" {
		t.Errorf("message: got %q", err.Error())
	}
	if !apperr.IsKind(err, apperr.Unexpected) {
		t.Error("Wrap should produce Unexpected")
	}
}
