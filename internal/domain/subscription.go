package domain

import "time"

// SubscriptionStatus is the observable composite status of a subscription
// record for display purposes.
type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionPaid     SubscriptionStatus = "paid"
	SubscriptionPaused   SubscriptionStatus = "paused"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// SubscriptionRecord records externally-asserted payment and pause/cancel
// state for one member in one period. Absence of a record is equivalent to
// the zero state (not paid, not paused, not canceled).
//
// Paused and Canceled are mutually exclusive: the transition methods below
// are the only writers and each clears the other flag and its timestamp.
// Every write replaces the whole record for its (member, period) key; the
// record never carries history.
type SubscriptionRecord struct {
	MemberID ProfileID
	Period   PeriodKey

	Paid bool

	Paused   bool
	PausedAt *time.Time

	Canceled   bool
	CanceledAt *time.Time

	// Note is free-text context set by admins; nil means unset.
	Note *string
}

// Status resolves the display status. Precedence: canceled always wins, then
// paused, then paid; the baseline is pending.
func (r SubscriptionRecord) Status() SubscriptionStatus {
	switch {
	case r.Canceled:
		return SubscriptionCanceled
	case r.Paused:
		return SubscriptionPaused
	case r.Paid:
		return SubscriptionPaid
	default:
		return SubscriptionPending
	}
}

// ApplyPause sets the paused flag and clears any cancellation.
// Paid is untouched. Re-applying refreshes only the timestamp.
func (r *SubscriptionRecord) ApplyPause(now time.Time) {
	r.Paused = true
	r.PausedAt = &now
	r.Canceled = false
	r.CanceledAt = nil
}

// ApplyCancel sets the canceled flag and clears any pause.
// Paid is untouched. Re-applying refreshes only the timestamp.
func (r *SubscriptionRecord) ApplyCancel(now time.Time) {
	r.Canceled = true
	r.CanceledAt = &now
	r.Paused = false
	r.PausedAt = nil
}

// ApplyReactivate clears both pause and cancellation together with their
// timestamps. Paid is untouched.
func (r *SubscriptionRecord) ApplyReactivate() {
	r.Paused = false
	r.PausedAt = nil
	r.Canceled = false
	r.CanceledAt = nil
}
