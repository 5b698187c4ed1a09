package capture

import "time"

// Scheduler runs delayed callbacks. The returned stop func cancels the
// callback if it has not fired yet.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) (stop func())
}

type systemScheduler struct{}

// SystemScheduler schedules on the wall clock with time.AfterFunc.
func SystemScheduler() Scheduler { return systemScheduler{} }

func (systemScheduler) Now() time.Time { return time.Now() }

func (systemScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// loopScheduler hands fired callbacks to post so they run on the session
// goroutine instead of the timer goroutine.
type loopScheduler struct {
	base Scheduler
	post func(func())
}

func (l loopScheduler) Now() time.Time { return l.base.Now() }

func (l loopScheduler) AfterFunc(d time.Duration, f func()) func() {
	return l.base.AfterFunc(d, func() { l.post(f) })
}
