package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMapErrorPassesTypedErrorsThrough(t *testing.T) {
	orig := ForbiddenError("donation.delete", "administrator role required")
	mapped := MapError("outer.op", orig)
	if mapped != orig {
		t.Fatalf("typed errors must pass through unchanged")
	}
}

func TestMapErrorRecordNotFound(t *testing.T) {
	err := MapError("project.get", fmt.Errorf("load: %w", gorm.ErrRecordNotFound))
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestMapErrorContextCancellation(t *testing.T) {
	if err := MapError("op", context.Canceled); !IsCode(err, CodeRetryable) {
		t.Fatalf("cancellation must map to retryable, got %v", err)
	}
	if err := MapError("op", context.DeadlineExceeded); !IsCode(err, CodeRetryable) {
		t.Fatalf("deadline must map to retryable, got %v", err)
	}
}

func TestMapErrorPostgresCodes(t *testing.T) {
	cases := []struct {
		pgCode string
		want   ErrorCode
	}{
		{"23505", CodeConflict},
		{"23503", CodeInvariantViolation},
		{"40001", CodeRetryable},
		{"40P01", CodeRetryable},
		{"55P03", CodeRetryable},
		{"42703", CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.pgCode, func(t *testing.T) {
			err := MapError("op", &pgconn.PgError{Code: tc.pgCode, Message: "boom"})
			if !IsCode(err, tc.want) {
				t.Fatalf("pg code %s: expected %s, got %v", tc.pgCode, tc.want, err)
			}
		})
	}
}

func TestMapErrorDefaultsToInternal(t *testing.T) {
	err := MapError("op", errors.New("connection reset"))
	if !IsCode(err, CodeInternal) {
		t.Fatalf("expected internal, got %v", err)
	}
}

func TestMapErrorNil(t *testing.T) {
	if MapError("op", nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(ConflictError("op", "dup")) != CodeConflict {
		t.Fatalf("expected conflict code")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("untyped error must have empty code")
	}
	wrapped := fmt.Errorf("outer: %w", NotFoundError("op", "gone"))
	if CodeOf(wrapped) != CodeNotFound {
		t.Fatalf("code must survive wrapping")
	}
}

func TestErrorString(t *testing.T) {
	err := NewError(CodeValidation, "donation.create", "amount must be positive", nil)
	want := "donation.create: amount must be positive (validation)"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
