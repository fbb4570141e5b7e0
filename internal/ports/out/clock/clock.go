package clock

import "time"

// Clock provides time to the application. Injecting it keeps timestamp-heavy
// logic (pausedAt, canceledAt, updatedAt) deterministic under test.
type Clock interface {
	Now() time.Time
}
