package capture

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrDeviceClosed is returned when pushing to a released remote device.
	ErrDeviceClosed = errors.New("capture: device closed")
	// ErrNoFrame is returned by a snapshot before any frame was pushed.
	ErrNoFrame = errors.New("capture: no frame received")
)

// RemoteDevice is a camera and detector whose frames and landmarks are
// pushed by a client that runs the hand model itself. The latest pushed
// frame is what a snapshot returns.
type RemoteDevice struct {
	mu         sync.Mutex
	frame      []byte
	detections chan Detection
	camOpen    bool
	detOpen    bool
	closed     bool
}

func NewRemoteDevice(buffer int) *RemoteDevice {
	if buffer < 1 {
		buffer = 1
	}
	return &RemoteDevice{detections: make(chan Detection, buffer)}
}

func (r *RemoteDevice) OpenCamera(ctx context.Context) (Camera, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.camOpen {
		return nil, ErrDeviceClosed
	}
	r.camOpen = true
	return remoteCamera{r}, nil
}

func (r *RemoteDevice) OpenDetector(ctx context.Context, cam Camera) (Detector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.detOpen {
		return nil, ErrDeviceClosed
	}
	r.detOpen = true
	return remoteDetector{r}, nil
}

// Push records frame (when non-empty) as the latest video frame and queues
// a detection for hands. When the queue is full the oldest detection is
// dropped.
func (r *RemoteDevice) Push(frame []byte, hands []Hand) error {
	return r.send(frame, Detection{Hands: hands})
}

// Fail reports that the client lost its camera or detector.
func (r *RemoteDevice) Fail(err error) error {
	return r.send(nil, Detection{Err: err})
}

func (r *RemoteDevice) send(frame []byte, d Detection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrDeviceClosed
	}
	if len(frame) > 0 {
		r.frame = append(r.frame[:0], frame...)
	}
	select {
	case r.detections <- d:
		return nil
	default:
	}
	select {
	case <-r.detections:
	default:
	}
	select {
	case r.detections <- d:
	default:
	}
	return nil
}

func (r *RemoteDevice) snapshot() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frame) == 0 {
		return nil, ErrNoFrame
	}
	out := make([]byte, len(r.frame))
	copy(out, r.frame)
	return out, nil
}

func (r *RemoteDevice) closeCamera() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.camOpen = false
	r.shutdown()
}

func (r *RemoteDevice) closeDetector() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detOpen = false
	r.shutdown()
}

// shutdown closes the device for good once both handles are gone.
// Callers hold r.mu.
func (r *RemoteDevice) shutdown() {
	if r.closed || r.camOpen || r.detOpen {
		return
	}
	r.closed = true
	r.frame = nil
	close(r.detections)
}

type remoteCamera struct{ r *RemoteDevice }

func (c remoteCamera) Snapshot() ([]byte, error) { return c.r.snapshot() }

func (c remoteCamera) Close() error {
	c.r.closeCamera()
	return nil
}

type remoteDetector struct{ r *RemoteDevice }

func (d remoteDetector) Detections() <-chan Detection { return d.r.detections }

func (d remoteDetector) Close() error {
	d.r.closeDetector()
	return nil
}
