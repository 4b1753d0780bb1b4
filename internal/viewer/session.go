package viewer

import (
	"errors"
	"sync"

	"gallery/pkg/geometry"
)

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("viewer: session closed")

// Session owns the transform state of one opened item, from the moment the
// detail overlay opens until it closes. Calls may come from the UI goroutine
// and from the goroutine that decodes the image; frames are delivered to the
// sink after the session lock is released, so a sink may call back into the
// session.
type Session struct {
	mu      sync.Mutex
	itemID  string
	ctrl    *Controller
	sink    RenderSink
	pending []Frame
	closed  bool
}

var _ InputHandler = (*Session)(nil)

// NewSession opens an inspection session for itemID.
func NewSession(itemID string, sink RenderSink, opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = RenderFunc(func(Frame) {})
	}
	s := &Session{itemID: itemID, sink: sink}
	s.ctrl = NewController(RenderFunc(func(f Frame) {
		s.pending = append(s.pending, f)
	}), opts)
	return s, nil
}

// ItemID returns the identifier of the inspected item.
func (s *Session) ItemID() string {
	return s.itemID
}

// State returns the current transform state.
func (s *Session) State() TransformState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.State()
}

// Frame returns the frame for the current state.
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Frame()
}

// ImageSize returns the natural image size, zero until known.
func (s *Session) ImageSize() geometry.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.ImageSize()
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Dragging()
}

// DragStart implements InputHandler.
func (s *Session) DragStart(p geometry.Point2D) {
	s.do(func(c *Controller) { c.DragStart(p) })
}

// DragMove implements InputHandler.
func (s *Session) DragMove(p geometry.Point2D) {
	s.do(func(c *Controller) { c.DragMove(p) })
}

// DragEnd implements InputHandler.
func (s *Session) DragEnd() {
	s.do(func(c *Controller) { c.DragEnd() })
}

// Wheel implements InputHandler.
func (s *Session) Wheel(deltaY float64) {
	s.do(func(c *Controller) { c.Wheel(deltaY) })
}

// Resize implements InputHandler.
func (s *Session) Resize(viewport geometry.Size) {
	s.do(func(c *Controller) { c.Resize(viewport) })
}

// SetZoom sets the scale, clamped to the current bounds.
func (s *Session) SetZoom(v float64) {
	s.do(func(c *Controller) { c.SetZoom(v) })
}

// Reset restores the fit and re-enables auto-refit.
func (s *Session) Reset() {
	s.do(func(c *Controller) { c.Reset() })
}

// SetImageSize reports the decoded image's natural size.
func (s *Session) SetImageSize(img geometry.Size) error {
	var err error
	if !s.do(func(c *Controller) { err = c.SetImageSize(img) }) {
		return ErrSessionClosed
	}
	return err
}

// Close ends the session. Further input is ignored.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.pending = nil
	s.mu.Unlock()
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// do runs fn under the lock and then flushes queued frames. It reports
// false when the session is closed.
func (s *Session) do(fn func(*Controller)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	fn(s.ctrl)
	frames := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, f := range frames {
		s.sink.Render(f)
	}
	return true
}
