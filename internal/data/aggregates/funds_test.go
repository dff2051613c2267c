package aggregates

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

func testFunds(t *testing.T) *ProjectFunds {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewProjectFunds(log, nil)
}

func TestClampedRelease(t *testing.T) {
	cases := []struct {
		name    string
		current string
		amount  string
		want    string
	}{
		{"normal release", "400.00", "150.00", "250.00"},
		{"release all", "400.00", "400.00", "0.00"},
		{"underflow clamps to zero", "100.00", "250.00", "0.00"},
		{"release from zero", "0.00", "50.00", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClampedRelease(
				decimal.RequireFromString(tc.current),
				decimal.RequireFromString(tc.amount),
			)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCollectRejectsNilProject(t *testing.T) {
	f := testFunds(t)
	err := f.Collect(dbctx.Context{}, nil, decimal.RequireFromString("10.00"))
	if !IsCode(err, CodeInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestCollectRejectsNonPositiveAmount(t *testing.T) {
	f := testFunds(t)
	p := &domain.Project{CollectedAmount: decimal.Zero}
	for _, amount := range []string{"0", "-5.00"} {
		err := f.Collect(dbctx.Context{}, p, decimal.RequireFromString(amount))
		if !IsCode(err, CodeValidation) {
			t.Fatalf("amount %s: expected validation error, got %v", amount, err)
		}
	}
	if !p.CollectedAmount.Equal(decimal.Zero) {
		t.Fatalf("rejected collect must not mutate the total, got %s", p.CollectedAmount)
	}
}

func TestCollectRequiresOpenTransaction(t *testing.T) {
	f := testFunds(t)
	p := &domain.Project{CollectedAmount: decimal.Zero}
	err := f.Collect(dbctx.Context{}, p, decimal.RequireFromString("10.00"))
	if !IsCode(err, CodeInternal) {
		t.Fatalf("expected internal error without a transaction, got %v", err)
	}
}
