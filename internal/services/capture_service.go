package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/capture"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/storage"
)

// frameBuffer is how many detections a session queues before dropping the
// oldest one.
const frameBuffer = 4

type captureEntry struct {
	id      string
	userID  string
	device  *capture.RemoteDevice
	session *capture.Session
	cancel  context.CancelFunc
	started time.Time
	// saved is closed once watch has finished with the session's photo.
	saved chan struct{}

	mu       sync.Mutex
	photoURL string
	saveErr  error
}

func (e *captureEntry) result() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.photoURL, e.saveErr
}

// result waits for a captured photo to be stored so that a session never
// reads as captured without its URL.
func (s *CaptureService) result(e *captureEntry) (string, error) {
	if e.session.State().Phase == capture.PhaseCaptured {
		<-e.saved
	}
	return e.result()
}

// CaptureService runs one guided capture session per user. Clients push
// detector output to a session over HTTP and poll its state; the captured
// frame is persisted through the photo store.
type CaptureService struct {
	Photos *storage.PhotoStore

	cfg      capture.Config
	ttl      time.Duration
	maxFrame int64
	base     context.Context
	opts     []capture.Option
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*captureEntry
	byUser   map[string]string
}

// NewCaptureService returns a service whose sessions live at most ttl and
// are all cancelled when ctx ends.
func NewCaptureService(ctx context.Context, cfg capture.Config, ttl time.Duration, photos *storage.PhotoStore, opts ...capture.Option) *CaptureService {
	return &CaptureService{
		Photos:   photos,
		cfg:      cfg,
		ttl:      ttl,
		maxFrame: photos.MaxSize,
		base:     ctx,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*captureEntry),
		byUser:   make(map[string]string),
	}
}

// Start opens a new session for the user, cancelling any earlier one.
func (s *CaptureService) Start(sess *auth.Session) (*dtos.CaptureSessionResponse, error) {
	device := capture.NewRemoteDevice(frameBuffer)
	ctx, cancel := context.WithCancel(s.base)
	session, err := capture.Start(ctx, device, s.cfg, s.opts...)
	if err != nil {
		cancel()
		return nil, err
	}
	entry := &captureEntry{
		id:      uuid.NewString(),
		userID:  sess.UserID,
		device:  device,
		session: session,
		cancel:  cancel,
		started: s.now(),
		saved:   make(chan struct{}),
	}

	s.mu.Lock()
	prev := s.sessions[s.byUser[sess.UserID]]
	s.sessions[entry.id] = entry
	s.byUser[sess.UserID] = entry.id
	s.mu.Unlock()
	if prev != nil {
		prev.session.Cancel()
	}

	go s.watch(entry)
	slog.Info("capture session started", "session_id", entry.id, "user_id", sess.UserID)
	return s.view(entry), nil
}

// watch persists the photo once the session ends.
func (s *CaptureService) watch(e *captureEntry) {
	defer close(e.saved)
	photo, err := e.session.Wait(context.Background())
	e.cancel()
	slog.Info("capture session ended", "session_id", e.id, "phase", e.session.State().Phase.String())
	if err != nil {
		return
	}

	url, err := s.Photos.Save(e.userID, e.id, photo)
	if err != nil {
		slog.Error("capture photo not stored", "session_id", e.id, "err", err)
	}
	e.mu.Lock()
	e.photoURL = url
	e.saveErr = err
	e.mu.Unlock()
}

// Frame pushes one detector result into the session.
func (s *CaptureService) Frame(sess *auth.Session, id string, req *dtos.FrameRequest) (*dtos.CaptureSessionResponse, error) {
	e, err := s.lookup(sess, id)
	if err != nil {
		return nil, err
	}
	if req.Error != "" {
		err = e.device.Fail(errors.New(req.Error))
	} else {
		var frame []byte
		if req.Frame != "" {
			if frame, _, err = storage.DecodeImage(req.Frame, s.maxFrame); err != nil {
				return nil, err
			}
		}
		err = e.device.Push(frame, req.Hands)
	}
	// a finished session no longer takes frames; its state says why
	if err != nil && !errors.Is(err, capture.ErrDeviceClosed) {
		return nil, err
	}
	return s.view(e), nil
}

// Get reports the session state.
func (s *CaptureService) Get(sess *auth.Session, id string) (*dtos.CaptureSessionResponse, error) {
	e, err := s.lookup(sess, id)
	if err != nil {
		return nil, err
	}
	return s.view(e), nil
}

// Cancel stops the session and releases its devices.
func (s *CaptureService) Cancel(sess *auth.Session, id string) (*dtos.CaptureSessionResponse, error) {
	e, err := s.lookup(sess, id)
	if err != nil {
		return nil, err
	}
	e.session.Cancel()
	return s.view(e), nil
}

// PhotoURL returns the stored photo of a captured session owned by userID.
func (s *CaptureService) PhotoURL(userID, id string) (string, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || e.userID != userID {
		return "", apperr.Validation("photo is missing", map[string]string{
			"capture_session_id": "capture session not found or expired",
		})
	}
	url, saveErr := s.result(e)
	if saveErr != nil {
		return "", saveErr
	}
	if url == "" {
		return "", apperr.Validation("photo is missing", map[string]string{
			"capture_session_id": "capture session has not taken a photo",
		})
	}
	return url, nil
}

func (s *CaptureService) lookup(sess *auth.Session, id string) (*captureEntry, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || e.userID != sess.UserID {
		return nil, apperr.New(apperr.CodeNotFound, "capture session not found")
	}
	return e, nil
}

func (s *CaptureService) view(e *captureEntry) *dtos.CaptureSessionResponse {
	st := e.session.State()
	url, saveErr := s.result(e)
	resp := &dtos.CaptureSessionResponse{
		ID:              e.id,
		Phase:           st.Phase,
		PoseIndex:       st.PoseIndex,
		RequiredFingers: st.Required,
		ConfirmedPoses:  st.Confirmed,
		TotalPoses:      st.TotalPoses,
		PhotoURL:        url,
	}
	if !st.HeldSince.IsZero() {
		held := st.HeldSince
		resp.HeldSince = &held
	}
	if st.Phase == capture.PhaseCountingDown {
		remaining := st.CountdownRemaining
		resp.CountdownRemaining = &remaining
	}
	switch {
	case st.Err != nil:
		resp.Error = st.Err.Error()
	case saveErr != nil:
		resp.Error = "photo could not be stored"
	}
	return resp
}

// Run sweeps expired sessions until ctx is cancelled, then cancels every
// remaining session.
func (s *CaptureService) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("capture sweeper started", "ttl", s.ttl)
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			slog.Info("capture sweeper stopped")
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Info("swept capture sessions", "count", n)
			}
		}
	}
}

// Sweep drops sessions older than the TTL, cancelling any still running.
func (s *CaptureService) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*captureEntry
	for id, e := range s.sessions {
		if e.started.After(cutoff) {
			continue
		}
		expired = append(expired, e)
		delete(s.sessions, id)
		if s.byUser[e.userID] == id {
			delete(s.byUser, e.userID)
		}
	}
	s.mu.Unlock()

	for _, e := range expired {
		e.session.Cancel()
	}
	return len(expired)
}

func (s *CaptureService) closeAll() {
	s.mu.RLock()
	entries := make([]*captureEntry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()
	for _, e := range entries {
		e.session.Cancel()
	}
}
