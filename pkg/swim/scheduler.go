package swim

import "time"

// Scheduler defers a single callback by the given duration. Delays are
// measured on the monotonic clock and deliveries are never dropped.
// There is no cancellation; receivers reconcile late deliveries against
// their own state.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// timeScheduler schedules on the runtime timer heap.
type timeScheduler struct{}

func (timeScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
