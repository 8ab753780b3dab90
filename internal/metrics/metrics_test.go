package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncPayout_TracksEveryOutcome(t *testing.T) {
	for _, outcome := range []string{"settled", "skipped", "failed"} {
		before := testutil.ToFloat64(payoutsProcessed.WithLabelValues(outcome))
		IncPayout(outcome)
		after := testutil.ToFloat64(payoutsProcessed.WithLabelValues(outcome))
		if after != before+1 {
			t.Errorf("outcome %q: expected counter %v, got %v", outcome, before+1, after)
		}
	}
}

func TestRegister_IsIdempotent(t *testing.T) {
	Register()
	Register() // must not panic on double registration
}
