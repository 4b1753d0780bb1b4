// Package canvas provides the inspection canvas: a product image with
// drag-to-pan and wheel zoom driven by a viewer session.
package canvas

import (
	"image"
	"image/color"
	"sync"

	"gallery/internal/viewer"
	"gallery/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var backdrop = color.NRGBA{R: 0x14, G: 0x14, B: 0x14, A: 0xFF}

// InspectCanvas displays one image placed by the frames of a viewer session.
// It forwards pointer input to the session and renders every frame the
// session emits.
type InspectCanvas struct {
	widget.BaseWidget

	mu       sync.Mutex
	session  *viewer.Session
	frame    viewer.Frame
	hasFrame bool
	imgSize  geometry.Size
	dragging bool

	background *fynecanvas.Rectangle
	image      *fynecanvas.Image

	// Callbacks
	onFrame func(viewer.Frame)
}

var (
	_ viewer.RenderSink  = (*InspectCanvas)(nil)
	_ fyne.Draggable     = (*InspectCanvas)(nil)
	_ fyne.Scrollable    = (*InspectCanvas)(nil)
	_ desktop.Hoverable  = (*InspectCanvas)(nil)
	_ desktop.Cursorable = (*InspectCanvas)(nil)
)

// NewInspectCanvas creates an empty canvas. Attach a session with
// SetSession and an image with SetImage.
func NewInspectCanvas() *InspectCanvas {
	ic := &InspectCanvas{
		background: fynecanvas.NewRectangle(backdrop),
		image:      &fynecanvas.Image{FillMode: fynecanvas.ImageFillStretch},
	}
	ic.image.Hide()
	ic.ExtendBaseWidget(ic)
	return ic
}

// SetSession attaches the session that receives this canvas's input. The
// current widget size is reported to it immediately.
func (ic *InspectCanvas) SetSession(s *viewer.Session) {
	ic.mu.Lock()
	ic.session = s
	ic.dragging = false
	ic.hasFrame = false
	ic.mu.Unlock()

	if s != nil {
		if size := ic.Size(); size.Width > 0 && size.Height > 0 {
			s.Resize(toSize(size))
		}
	}
}

// Session returns the attached session.
func (ic *InspectCanvas) Session() *viewer.Session {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.session
}

// SetImage shows img and reports its natural size to the session.
func (ic *InspectCanvas) SetImage(img image.Image) error {
	var size geometry.Size
	if img != nil {
		b := img.Bounds()
		size = geometry.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
	}

	ic.mu.Lock()
	ic.imgSize = size
	s := ic.session
	ic.mu.Unlock()

	ic.image.Image = img
	if img == nil {
		ic.image.Hide()
	}
	if s == nil || img == nil {
		ic.Refresh()
		return nil
	}
	if err := s.SetImageSize(size); err != nil {
		return err
	}
	// Without auto-fit no frame is emitted for a new image.
	if _, ok := ic.Frame(); !ok {
		ic.Render(s.Frame())
	}
	return nil
}

// OnFrame registers a callback invoked after every rendered frame.
func (ic *InspectCanvas) OnFrame(f func(viewer.Frame)) {
	ic.mu.Lock()
	ic.onFrame = f
	ic.mu.Unlock()
}

// Frame returns the last rendered frame.
func (ic *InspectCanvas) Frame() (viewer.Frame, bool) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.frame, ic.hasFrame
}

// Render implements viewer.RenderSink.
func (ic *InspectCanvas) Render(f viewer.Frame) {
	ic.mu.Lock()
	ic.frame = f
	ic.hasFrame = true
	cb := ic.onFrame
	ic.mu.Unlock()

	ic.place(ic.Size())
	fynecanvas.Refresh(ic.image)
	if cb != nil {
		cb(f)
	}
}

// place positions the image for the current frame inside a widget of size.
func (ic *InspectCanvas) place(size fyne.Size) {
	ic.mu.Lock()
	f, ok, img := ic.frame, ic.hasFrame, ic.imgSize
	ic.mu.Unlock()

	if !ok || !img.Positive() || ic.image.Image == nil {
		ic.image.Hide()
		return
	}
	r := f.Placement(toSize(size), img)
	ic.image.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
	ic.image.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
	ic.image.Show()
}

// Dragged implements fyne.Draggable. The first event of a gesture starts
// the pan at the pointer's original position.
func (ic *InspectCanvas) Dragged(ev *fyne.DragEvent) {
	ic.mu.Lock()
	s := ic.session
	starting := !ic.dragging
	ic.dragging = s != nil
	ic.mu.Unlock()
	if s == nil {
		return
	}

	if starting {
		s.DragStart(toPoint(ev.Position.Subtract(ev.Dragged)))
	}
	s.DragMove(toPoint(ev.Position))
}

// DragEnd implements fyne.Draggable.
func (ic *InspectCanvas) DragEnd() {
	ic.endDrag()
}

// Scrolled implements fyne.Scrollable. Wheel up zooms in.
func (ic *InspectCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if s := ic.Session(); s != nil {
		s.Wheel(-float64(ev.Scrolled.DY))
	}
}

func (ic *InspectCanvas) MouseIn(*desktop.MouseEvent) {}

func (ic *InspectCanvas) MouseMoved(*desktop.MouseEvent) {}

// MouseOut ends any pan in progress.
func (ic *InspectCanvas) MouseOut() {
	ic.endDrag()
}

// Cursor implements desktop.Cursorable.
func (ic *InspectCanvas) Cursor() desktop.Cursor {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if ic.dragging {
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

func (ic *InspectCanvas) endDrag() {
	ic.mu.Lock()
	s := ic.session
	was := ic.dragging
	ic.dragging = false
	ic.mu.Unlock()

	if was && s != nil {
		s.DragEnd()
	}
}

func (ic *InspectCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &inspectRenderer{canvas: ic}
}

type inspectRenderer struct {
	canvas   *InspectCanvas
	lastSize fyne.Size
}

func (r *inspectRenderer) Layout(size fyne.Size) {
	r.canvas.background.Resize(size)
	if size != r.lastSize {
		r.lastSize = size
		if s := r.canvas.Session(); s != nil {
			// Emits a frame synchronously when auto-fit is active.
			s.Resize(toSize(size))
		}
	}
	r.canvas.place(size)
}

func (r *inspectRenderer) MinSize() fyne.Size {
	return fyne.NewSize(240, 240)
}

func (r *inspectRenderer) Refresh() {
	r.canvas.background.FillColor = backdrop
	r.canvas.background.Refresh()
	r.canvas.place(r.canvas.Size())
	fynecanvas.Refresh(r.canvas.image)
}

func (r *inspectRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.background, r.canvas.image}
}

func (r *inspectRenderer) Destroy() {}

func toSize(s fyne.Size) geometry.Size {
	return geometry.Size{Width: float64(s.Width), Height: float64(s.Height)}
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
}
