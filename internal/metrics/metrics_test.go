package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(OrdersCommittedTotal)
	OrdersCommittedTotal.Inc()
	if got := testutil.ToFloat64(OrdersCommittedTotal); got != before+1 {
		t.Fatalf("orders committed want %v got %v", before+1, got)
	}

	PromotionRejectedTotal.WithLabelValues("coupon", "limit_exceeded").Inc()
	if got := testutil.ToFloat64(PromotionRejectedTotal.WithLabelValues("coupon", "limit_exceeded")); got < 1 {
		t.Fatalf("promotion rejected counter not incremented")
	}
}

func TestObserveJobLabelsStatus(t *testing.T) {
	ObserveJob("payment_batch", time.Now(), nil)
	ObserveJob("payment_batch", time.Now(), errors.New("boom"))
	if count := testutil.CollectAndCount(JobDuration); count < 2 {
		t.Fatalf("expected success and failure series, got %d", count)
	}
}
