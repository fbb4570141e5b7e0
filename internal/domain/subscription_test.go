package domain

import (
	"testing"
	"time"
)

func TestSubscriptionRecord_StatusPrecedence(t *testing.T) {
	t.Parallel()

	now := time.Unix(100, 0).UTC()
	cases := []struct {
		name string
		rec  SubscriptionRecord
		want SubscriptionStatus
	}{
		{"zero record is pending", SubscriptionRecord{}, SubscriptionPending},
		{"paid", SubscriptionRecord{Paid: true}, SubscriptionPaid},
		{"paused beats paid", SubscriptionRecord{Paid: true, Paused: true, PausedAt: &now}, SubscriptionPaused},
		{"canceled beats paid", SubscriptionRecord{Paid: true, Canceled: true, CanceledAt: &now}, SubscriptionCanceled},
	}
	for _, tc := range cases {
		if got := tc.rec.Status(); got != tc.want {
			t.Errorf("%s: status=%q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSubscriptionRecord_PauseThenCancel(t *testing.T) {
	t.Parallel()

	var rec SubscriptionRecord
	t1 := time.Unix(100, 0).UTC()
	t2 := time.Unix(200, 0).UTC()

	rec.ApplyPause(t1)
	rec.ApplyCancel(t2)

	if rec.Paused || rec.PausedAt != nil {
		t.Fatalf("cancel must clear pause state, got %+v", rec)
	}
	if !rec.Canceled || rec.CanceledAt == nil || !rec.CanceledAt.Equal(t2) {
		t.Fatalf("expected canceled at %v, got %+v", t2, rec)
	}
}

func TestSubscriptionRecord_ReactivateLeavesPaid(t *testing.T) {
	t.Parallel()

	rec := SubscriptionRecord{Paid: true}
	rec.ApplyCancel(time.Unix(100, 0).UTC())
	rec.ApplyReactivate()

	if !rec.Paid {
		t.Fatalf("reactivate must not touch paid")
	}
	if rec.Paused || rec.Canceled || rec.PausedAt != nil || rec.CanceledAt != nil {
		t.Fatalf("expected clean record, got %+v", rec)
	}
	if rec.Status() != SubscriptionPaid {
		t.Fatalf("status=%q, want paid", rec.Status())
	}
}

func TestPeriodKeyFor(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, time.January, 31, 23, 59, 0, 0, time.UTC)
	if got := PeriodKeyFor(ts); got != PeriodKey("2025-01") {
		t.Fatalf("period=%q, want 2025-01", got)
	}
}
