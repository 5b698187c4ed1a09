package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/justsurfingit/job-portal/internal/apperr"
)

// Camera is an acquired video source.
type Camera interface {
	Snapshot() ([]byte, error)
	Close() error
}

// Detection is one landmark detector callback. Err reports that the
// detector or its video source stopped working.
type Detection struct {
	Hands []Hand
	Err   error
}

// Detector pushes detections at its own cadence.
type Detector interface {
	Detections() <-chan Detection
	Close() error
}

// Devices acquires the camera and the detector bound to it.
type Devices interface {
	OpenCamera(ctx context.Context) (Camera, error)
	OpenDetector(ctx context.Context, cam Camera) (Detector, error)
}

// ErrCancelled is returned by Wait for a session cancelled before capture.
var ErrCancelled = errors.New("capture: session cancelled")

// Session runs a Flow on its own goroutine, feeding it detector frames,
// timer fires and cancel requests in arrival order.
type Session struct {
	flow   *Flow
	cam    Camera
	det    Detector
	calls  chan func()
	done   chan struct{}
	logger *slog.Logger
	notify func(State)

	mu    sync.Mutex
	state State
	photo []byte
}

type options struct {
	sched  Scheduler
	logger *slog.Logger
	notify func(State)
}

type Option func(*options)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option { return func(o *options) { o.sched = s } }

// WithLogger sets the logger used for device release errors.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithNotify registers a callback run on the session goroutine after each
// state change. It must not block.
func WithNotify(fn func(State)) Option { return func(o *options) { o.notify = fn } }

// Start acquires the camera and detector and begins waiting for the first
// pose. ctx bounds both acquisition and the session lifetime; cancelling
// it cancels the session.
func Start(ctx context.Context, devices Devices, cfg Config, opts ...Option) (*Session, error) {
	o := options{sched: SystemScheduler(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cam, err := devices.OpenCamera(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDeviceUnavailable, "camera unavailable", err)
	}
	det, err := devices.OpenDetector(ctx, cam)
	if err != nil {
		if cerr := cam.Close(); cerr != nil {
			o.logger.Warn("capture: close camera after detector failure", "err", cerr)
		}
		return nil, apperr.Wrap(apperr.CodeDeviceUnavailable, "hand detector unavailable", err)
	}

	s := &Session{
		cam:    cam,
		det:    det,
		calls:  make(chan func(), 16),
		done:   make(chan struct{}),
		logger: o.logger,
		notify: o.notify,
	}
	flow, err := NewFlow(cfg, loopScheduler{base: o.sched, post: s.post}, sessionEffects{s})
	if err != nil {
		// unreachable after validate, but keep the devices from leaking
		s.closeDevices()
		return nil, err
	}
	s.flow = flow
	flow.Begin()

	go s.run(ctx)
	return s, nil
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	detections := s.det.Detections()
	for !s.flow.State().Phase.Terminal() {
		select {
		case d, ok := <-detections:
			switch {
			case !ok:
				s.flow.Fail(apperr.New(apperr.CodeDeviceUnavailable, "hand detector stopped"))
			case d.Err != nil:
				s.flow.Fail(apperr.Wrap(apperr.CodeDeviceUnavailable, "hand detector failed", d.Err))
			default:
				s.flow.Observe(CountFromHands(d.Hands))
			}
		case fn := <-s.calls:
			fn()
		case <-ctx.Done():
			s.flow.Cancel()
		}
	}
}

// post queues fn for the session goroutine. It drops fn once the session
// has ended.
func (s *Session) post(fn func()) {
	select {
	case s.calls <- fn:
	case <-s.done:
	}
}

// Cancel stops the session and waits for its resources to be released.
// Cancelling a finished session does nothing.
func (s *Session) Cancel() {
	s.post(func() { s.flow.Cancel() })
	<-s.done
}

// Done is closed once the session reaches a terminal phase.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Wait blocks until the session ends and returns the captured photo.
func (s *Session) Wait(ctx context.Context) ([]byte, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state.Phase {
	case PhaseCaptured:
		return s.photo, nil
	case PhaseFailed:
		return nil, s.state.Err
	default:
		return nil, ErrCancelled
	}
}

func (s *Session) closeDevices() {
	if err := s.det.Close(); err != nil {
		s.logger.Warn("capture: close detector", "err", err)
	}
	if err := s.cam.Close(); err != nil {
		s.logger.Warn("capture: close camera", "err", err)
	}
}

type sessionEffects struct{ s *Session }

func (e sessionEffects) Snapshot() ([]byte, error) { return e.s.cam.Snapshot() }

func (e sessionEffects) Release() { e.s.closeDevices() }

func (e sessionEffects) Captured(photo []byte) {
	e.s.mu.Lock()
	e.s.photo = photo
	e.s.mu.Unlock()
}

func (e sessionEffects) Changed(st State) {
	e.s.mu.Lock()
	e.s.state = st
	e.s.mu.Unlock()
	if e.s.notify != nil {
		e.s.notify(st)
	}
}
