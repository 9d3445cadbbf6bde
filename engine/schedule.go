package engine

import "time"

// Scheduler defers a function by a delay. Every deferred task the engine
// schedules is guarded by combat-session identity: a task firing after its
// session was torn down is a no-op, so stale timers are harmless and no
// explicit cancellation is needed.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler is the default Scheduler, backed by time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// ImmediateScheduler runs tasks synchronously, ignoring the delay. Used by
// the plain CLI in script mode and by tests, where deferred combat turns
// must resolve before the next input line.
type ImmediateScheduler struct{}

func (ImmediateScheduler) After(_ time.Duration, fn func()) {
	fn()
}
