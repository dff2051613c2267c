package response

import (
	"net/http"
	"testing"

	"github.com/openhearth/charity-backend/internal/data/aggregates"
)

func TestStatusForCode(t *testing.T) {
	cases := []struct {
		code aggregates.ErrorCode
		want int
	}{
		{aggregates.CodeValidation, http.StatusBadRequest},
		{aggregates.CodeNotFound, http.StatusNotFound},
		{aggregates.CodeForbidden, http.StatusForbidden},
		{aggregates.CodeConflict, http.StatusConflict},
		{aggregates.CodeInvariantViolation, http.StatusConflict},
		{aggregates.CodeRetryable, http.StatusServiceUnavailable},
		{aggregates.CodeInternal, http.StatusInternalServerError},
		{aggregates.ErrorCode("bogus"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusForCode(tc.code); got != tc.want {
			t.Errorf("StatusForCode(%s): expected %d, got %d", tc.code, tc.want, got)
		}
	}
}
