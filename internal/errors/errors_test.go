package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorIs(t *testing.T) {
	t.Run("wrapped sentinel matches by code", func(t *testing.T) {
		wrapped := Wrap(ErrDuplicateOccurrence, fmt.Errorf("unique constraint failed"))
		if !errors.Is(wrapped, ErrDuplicateOccurrence) {
			t.Error("expected Wrap to preserve sentinel identity for errors.Is")
		}
		if errors.Is(wrapped, ErrTransactionNotFound) {
			t.Error("expected different codes not to match")
		}
	})

	t.Run("custom message keeps the code", func(t *testing.T) {
		err := WithMessage(ErrInvalidInput, "symbol is required")
		if !errors.Is(err, ErrInvalidInput) {
			t.Error("expected WithMessage to preserve sentinel identity for errors.Is")
		}
	})

	t.Run("unwrap exposes the internal error", func(t *testing.T) {
		internal := fmt.Errorf("driver failure")
		wrapped := Wrap(ErrInternalServer, internal)
		if !errors.Is(wrapped, internal) {
			t.Error("expected the internal error to stay in the chain")
		}
	})
}
