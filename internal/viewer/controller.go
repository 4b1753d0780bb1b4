package viewer

import (
	"fmt"

	"gallery/pkg/geometry"
)

// Zoom step limits. Each wheel notch changes the scale by this fraction.
const (
	MinZoomStep     = 0.10
	MaxZoomStep     = 0.12
	DefaultZoomStep = 0.12
	DefaultPadding  = 16.0
)

// InputHandler is the set of gestures the engine understands. Pointer and
// touch events both map onto the drag calls; pointer-leave maps to DragEnd.
type InputHandler interface {
	DragStart(p geometry.Point2D)
	DragMove(p geometry.Point2D)
	DragEnd()
	// Wheel follows the DOM convention: deltaY > 0 scrolls away from the
	// viewer and zooms out.
	Wheel(deltaY float64)
	Resize(viewport geometry.Size)
}

// Options configures a Controller.
type Options struct {
	Padding  float64 // viewport padding used by the fit
	ZoomStep float64 // fraction per wheel notch, within [MinZoomStep, MaxZoomStep]
	AutoFit  bool    // fit on open and on resize; false keeps scale 1
}

// DefaultOptions returns padding 16, step 0.12 and auto-fit enabled.
func DefaultOptions() Options {
	return Options{
		Padding:  DefaultPadding,
		ZoomStep: DefaultZoomStep,
		AutoFit:  true,
	}
}

// Validate checks the options for values the engine cannot honor.
func (o Options) Validate() error {
	if o.Padding < 0 {
		return fmt.Errorf("viewer: padding must be >= 0, got %v", o.Padding)
	}
	if o.ZoomStep < MinZoomStep || o.ZoomStep > MaxZoomStep {
		return fmt.Errorf("viewer: zoom step must be within [%.2f, %.2f], got %v",
			MinZoomStep, MaxZoomStep, o.ZoomStep)
	}
	return nil
}

type mode int

const (
	modeIdle mode = iota
	modeDragging
)

// Controller turns gestures into TransformState mutations and reports each
// mutation to its RenderSink. It is not safe for concurrent use; Session
// serializes access.
type Controller struct {
	opts Options
	sink RenderSink

	state    TransformState
	viewport geometry.Size
	image    geometry.Size

	mode      mode
	dragStart geometry.Point2D
	dragBase  geometry.Point2D

	// userChanged suspends auto-refit until Reset.
	userChanged bool
	// pendingFit defers a fit requested while a drag was in progress.
	pendingFit bool
}

var _ InputHandler = (*Controller)(nil)

// NewController creates a controller in the default state. A nil sink
// discards frames.
func NewController(sink RenderSink, opts Options) *Controller {
	if sink == nil {
		sink = RenderFunc(func(Frame) {})
	}
	return &Controller{
		opts:  opts,
		sink:  sink,
		state: DefaultState(),
	}
}

// State returns a copy of the current transform state.
func (c *Controller) State() TransformState {
	return c.state
}

// Frame returns the frame for the current state without emitting it.
func (c *Controller) Frame() Frame {
	return frameOf(c.state)
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.mode == modeDragging
}

// AutoFitActive reports whether resizes currently trigger a refit.
func (c *Controller) AutoFitActive() bool {
	return c.opts.AutoFit && !c.userChanged
}

// ImageSize returns the natural image size, zero until known.
func (c *Controller) ImageSize() geometry.Size {
	return c.image
}

// DragStart begins a pan at p.
func (c *Controller) DragStart(p geometry.Point2D) {
	c.mode = modeDragging
	c.userChanged = true
	c.dragStart = p
	c.dragBase = c.state.Offset()
}

// DragMove pans by the total displacement since DragStart. Ignored when idle.
func (c *Controller) DragMove(p geometry.Point2D) {
	if c.mode != modeDragging {
		return
	}
	c.state.SetOffset(c.dragBase.Add(p.Sub(c.dragStart)))
	c.emit()
}

// DragEnd finishes a pan.
func (c *Controller) DragEnd() {
	if c.mode != modeDragging {
		return
	}
	c.mode = modeIdle
	if c.pendingFit {
		c.pendingFit = false
		_ = c.fit()
	}
}

// Wheel zooms one step in or out. Offsets are left unchanged.
func (c *Controller) Wheel(deltaY float64) {
	c.userChanged = true
	c.state.SetScale(c.state.Scale * (1 - sign(deltaY)*c.opts.ZoomStep))
	c.emit()
}

// SetZoom sets the scale directly. Out-of-range values are clamped.
func (c *Controller) SetZoom(v float64) {
	c.userChanged = true
	c.state.SetScale(v)
	c.emit()
}

// Resize records the viewport size and refits while auto-fit is active and
// no drag is in progress. Non-finite sizes are ignored.
func (c *Controller) Resize(viewport geometry.Size) {
	if !finiteSize(viewport) {
		return
	}
	c.viewport = viewport
	if !c.AutoFitActive() || c.mode == modeDragging {
		return
	}
	_ = c.fit()
}

// SetImageSize records the natural image size once the asset has decoded
// and computes the initial fit. Input made before the image arrived does not
// prevent this fit, though it keeps resize refits suspended.
func (c *Controller) SetImageSize(img geometry.Size) error {
	if !img.Positive() || !finiteSize(img) {
		return ErrUnknownDimensions
	}
	c.image = img
	if !c.opts.AutoFit {
		return nil
	}
	if c.mode == modeDragging {
		c.pendingFit = true
		return nil
	}
	return c.fit()
}

// Reset restores the fit for the current viewport and image, or the
// default state when auto-fit is off or dimensions are unknown, and
// re-enables auto-refit.
func (c *Controller) Reset() {
	c.userChanged = false
	c.pendingFit = false
	if c.opts.AutoFit && c.fit() == nil {
		return
	}
	c.state = DefaultState()
	c.emit()
}

func (c *Controller) fit() error {
	f, err := ComputeFit(c.viewport, c.image, c.opts.Padding)
	if err != nil {
		return err
	}
	c.state = f.State()
	c.emit()
	return nil
}

func (c *Controller) emit() {
	c.sink.Render(frameOf(c.state))
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
