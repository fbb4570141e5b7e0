package domain

import "time"

// PeriodKey identifies a billing period. Subscription state is scoped per
// (member, period); the canonical format is a calendar month, e.g. "2025-01".
type PeriodKey string

// PeriodKeyFor returns the period key for the calendar month containing t.
func PeriodKeyFor(t time.Time) PeriodKey {
	return PeriodKey(t.UTC().Format("2006-01"))
}
