package capture

import (
	"fmt"
	"time"

	"github.com/justsurfingit/job-portal/internal/apperr"
)

// Phase is the lifecycle position of a capture flow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingPose
	PhasePoseHeld
	PhaseAllPosesConfirmed
	PhaseCountingDown
	PhaseCaptured
	PhaseFailed
	PhaseCancelled
)

var phaseNames = map[Phase]string{
	PhaseIdle:              "idle",
	PhaseAwaitingPose:      "awaiting_pose",
	PhasePoseHeld:          "pose_held",
	PhaseAllPosesConfirmed: "all_poses_confirmed",
	PhaseCountingDown:      "counting_down",
	PhaseCaptured:          "captured",
	PhaseFailed:            "failed",
	PhaseCancelled:         "cancelled",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == PhaseCaptured || p == PhaseFailed || p == PhaseCancelled
}

// Config describes the pose sequence and its timings.
type Config struct {
	Poses        []int
	Hold         time.Duration
	ConfirmDelay time.Duration
	Countdown    int
	Tick         time.Duration
}

// DefaultConfig asks for 1, 2 then 3 fingers, each held for 800ms,
// followed by a three second countdown.
func DefaultConfig() Config {
	return Config{
		Poses:        []int{1, 2, 3},
		Hold:         800 * time.Millisecond,
		ConfirmDelay: 500 * time.Millisecond,
		Countdown:    3,
		Tick:         time.Second,
	}
}

func (c Config) validate() error {
	if len(c.Poses) == 0 {
		return fmt.Errorf("capture: at least one pose is required")
	}
	for i, p := range c.Poses {
		if p < 1 || p > MaxFingers {
			return fmt.Errorf("capture: pose %d asks for %d fingers, want 1..%d", i, p, MaxFingers)
		}
	}
	if c.Hold < 0 || c.ConfirmDelay < 0 || c.Countdown < 0 {
		return fmt.Errorf("capture: negative timing")
	}
	if c.Countdown > 0 && c.Tick <= 0 {
		return fmt.Errorf("capture: countdown needs a positive tick")
	}
	return nil
}

// State is a snapshot of a flow. HeldSince is zero unless a pose is being
// held; CountdownRemaining is only meaningful while counting down.
type State struct {
	Phase              Phase
	PoseIndex          int
	Required           int
	Confirmed          int
	TotalPoses         int
	HeldSince          time.Time
	CountdownRemaining int
	Err                error
}

// Effects is how a Flow reaches the outside world. All calls happen on the
// goroutine that drives the flow.
type Effects interface {
	Snapshot() ([]byte, error)
	Release()
	Captured(photo []byte)
	Changed(State)
}

// Flow is the guided capture state machine. It is not safe for concurrent
// use; one goroutine must own it and run scheduler callbacks on it.
type Flow struct {
	cfg   Config
	sched Scheduler
	fx    Effects

	state    State
	gen      uint64
	stop     func()
	released bool
}

func NewFlow(cfg Config, sched Scheduler, fx Effects) (*Flow, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	f := &Flow{
		cfg:   cfg,
		sched: sched,
		fx:    fx,
	}
	f.state = State{
		Phase:      PhaseIdle,
		Required:   cfg.Poses[0],
		TotalPoses: len(cfg.Poses),
	}
	return f, nil
}

func (f *Flow) State() State { return f.state }

// Begin moves an idle flow to waiting for the first pose.
func (f *Flow) Begin() {
	if f.state.Phase != PhaseIdle {
		return
	}
	f.state.Phase = PhaseAwaitingPose
	f.changed()
}

// Observe feeds one detector result. Only a continuous match for the hold
// duration advances the pose; any mismatch discards the hold.
func (f *Flow) Observe(count int) {
	if f.state.Phase != PhaseAwaitingPose && f.state.Phase != PhasePoseHeld {
		return
	}
	if count == f.state.Required {
		if f.state.Phase == PhaseAwaitingPose {
			f.state.Phase = PhasePoseHeld
			f.state.HeldSince = f.sched.Now()
			f.schedule(f.cfg.Hold, f.confirmPose)
			f.changed()
		}
		return
	}
	if f.state.Phase == PhasePoseHeld {
		f.clearTimer()
		f.state.Phase = PhaseAwaitingPose
		f.state.HeldSince = time.Time{}
		f.changed()
	}
}

// Cancel ends a non-terminal flow without output. It reports whether the
// flow was still running.
func (f *Flow) Cancel() bool {
	return f.finish(PhaseCancelled, nil)
}

// Fail ends a non-terminal flow with err.
func (f *Flow) Fail(err error) bool {
	return f.finish(PhaseFailed, err)
}

func (f *Flow) finish(phase Phase, err error) bool {
	if f.state.Phase.Terminal() {
		return false
	}
	f.clearTimer()
	f.release()
	f.state.Phase = phase
	f.state.HeldSince = time.Time{}
	f.state.CountdownRemaining = 0
	f.state.Err = err
	f.changed()
	return true
}

func (f *Flow) confirmPose() {
	f.state.HeldSince = time.Time{}
	f.state.Confirmed++
	if f.state.Confirmed == len(f.cfg.Poses) {
		f.state.Phase = PhaseAllPosesConfirmed
		f.changed()
		if f.cfg.ConfirmDelay == 0 {
			f.startCountdown()
			return
		}
		f.schedule(f.cfg.ConfirmDelay, f.startCountdown)
		return
	}
	f.state.PoseIndex++
	f.state.Required = f.cfg.Poses[f.state.PoseIndex]
	f.state.Phase = PhaseAwaitingPose
	f.changed()
}

func (f *Flow) startCountdown() {
	f.state.Phase = PhaseCountingDown
	f.state.CountdownRemaining = f.cfg.Countdown
	if f.state.CountdownRemaining == 0 {
		f.capture()
		return
	}
	f.changed()
	f.schedule(f.cfg.Tick, f.tick)
}

func (f *Flow) tick() {
	f.state.CountdownRemaining--
	if f.state.CountdownRemaining <= 0 {
		f.capture()
		return
	}
	f.changed()
	f.schedule(f.cfg.Tick, f.tick)
}

func (f *Flow) capture() {
	f.clearTimer()
	photo, err := f.fx.Snapshot()
	f.release()
	f.state.CountdownRemaining = 0
	if err != nil {
		f.state.Phase = PhaseFailed
		f.state.Err = apperr.Wrap(apperr.CodeDeviceUnavailable, "camera snapshot failed", err)
		f.changed()
		return
	}
	f.state.Phase = PhaseCaptured
	f.fx.Captured(photo)
	f.changed()
}

// schedule replaces the pending timer. Callbacks carry the generation they
// were scheduled in and do nothing once the flow has moved on.
func (f *Flow) schedule(d time.Duration, fn func()) {
	f.clearTimer()
	gen := f.gen
	f.stop = f.sched.AfterFunc(d, func() {
		if f.gen != gen {
			return
		}
		f.stop = nil
		fn()
	})
}

func (f *Flow) clearTimer() {
	if f.stop != nil {
		f.stop()
		f.stop = nil
	}
	f.gen++
}

func (f *Flow) release() {
	if f.released {
		return
	}
	f.released = true
	f.fx.Release()
}

func (f *Flow) changed() {
	f.fx.Changed(f.state)
}
