package canvas

import (
	"image"
	"testing"

	"gallery/internal/viewer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas(t *testing.T, opts viewer.Options) (*InspectCanvas, *viewer.Session) {
	t.Helper()
	test.NewApp()

	ic := NewInspectCanvas()
	s, err := viewer.NewSession("item", ic, opts)
	require.NoError(t, err)
	ic.SetSession(s)
	test.WidgetRenderer(ic)
	ic.Resize(fyne.NewSize(416, 416))
	return ic, s
}

func TestInspectCanvasFitsImage(t *testing.T) {
	ic, s := newTestCanvas(t, viewer.DefaultOptions())

	var frames []viewer.Frame
	ic.OnFrame(func(f viewer.Frame) { frames = append(frames, f) })

	require.NoError(t, ic.SetImage(image.NewRGBA(image.Rect(0, 0, 800, 400))))
	require.NotEmpty(t, frames)

	f, ok := ic.Frame()
	require.True(t, ok)
	assert.InDelta(t, 0.475, f.Scale, 1e-6)
	assert.Equal(t, s.Frame(), f)

	assert.True(t, ic.image.Visible())
	assert.InDelta(t, 380, ic.image.Size().Width, 0.5)
	assert.InDelta(t, 190, ic.image.Size().Height, 0.5)
	assert.InDelta(t, 18, ic.image.Position().X, 0.5)
	assert.InDelta(t, 113, ic.image.Position().Y, 0.5)
}

func TestInspectCanvasDragPans(t *testing.T) {
	ic, s := newTestCanvas(t, viewer.DefaultOptions())
	require.NoError(t, ic.SetImage(image.NewRGBA(image.Rect(0, 0, 800, 400))))
	before := ic.image.Position()

	ic.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(110, 105)},
		Dragged:    fyne.NewDelta(10, 5),
	})
	assert.True(t, s.Dragging())
	ic.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(130, 160)},
		Dragged:    fyne.NewDelta(20, 55),
	})
	ic.DragEnd()

	assert.False(t, s.Dragging())
	st := s.State()
	assert.InDelta(t, 30, st.OffsetX, 1e-9)
	assert.InDelta(t, 60, st.OffsetY, 1e-9)
	assert.InDelta(t, before.X+30, ic.image.Position().X, 0.5)
	assert.InDelta(t, before.Y+60, ic.image.Position().Y, 0.5)
}

func TestInspectCanvasMouseOutEndsDrag(t *testing.T) {
	ic, s := newTestCanvas(t, viewer.DefaultOptions())
	require.NoError(t, ic.SetImage(image.NewRGBA(image.Rect(0, 0, 800, 400))))

	ic.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 50)},
		Dragged:    fyne.NewDelta(5, 0),
	})
	require.True(t, s.Dragging())

	ic.MouseOut()
	assert.False(t, s.Dragging())

	// A later drag restarts from its own origin.
	ic.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 10)},
		Dragged:    fyne.NewDelta(1, 1),
	})
	ic.DragEnd()
	assert.InDelta(t, 6, s.State().OffsetX, 1e-9)
}

func TestInspectCanvasWheel(t *testing.T) {
	ic, s := newTestCanvas(t, viewer.DefaultOptions())
	require.NoError(t, ic.SetImage(image.NewRGBA(image.Rect(0, 0, 100, 100))))
	start := s.State().Scale

	ic.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 1)})
	assert.InDelta(t, start*1.12, s.State().Scale, 1e-9)

	ic.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, -1)})
	assert.InDelta(t, start*1.12*0.88, s.State().Scale, 1e-9)
}

func TestInspectCanvasResizeRefits(t *testing.T) {
	ic, s := newTestCanvas(t, viewer.DefaultOptions())
	require.NoError(t, ic.SetImage(image.NewRGBA(image.Rect(0, 0, 800, 400))))

	ic.Resize(fyne.NewSize(816, 416))
	assert.InDelta(t, 0.95, s.State().Scale, 1e-6)

	ic.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 1)})
	zoomed := s.State().Scale
	ic.Resize(fyne.NewSize(416, 416))
	assert.Equal(t, zoomed, s.State().Scale)
}

func TestInspectCanvasWithoutAutoFit(t *testing.T) {
	opts := viewer.DefaultOptions()
	opts.AutoFit = false
	ic, _ := newTestCanvas(t, opts)

	require.NoError(t, ic.SetImage(image.NewRGBA(image.Rect(0, 0, 100, 50))))
	f, ok := ic.Frame()
	require.True(t, ok)
	assert.Equal(t, 1.0, f.Scale)
	assert.True(t, ic.image.Visible())
	assert.InDelta(t, 100, ic.image.Size().Width, 0.5)
}

func TestInspectCanvasNoSession(t *testing.T) {
	test.NewApp()
	ic := NewInspectCanvas()
	test.WidgetRenderer(ic)
	ic.Resize(fyne.NewSize(200, 200))

	require.NoError(t, ic.SetImage(image.NewRGBA(image.Rect(0, 0, 10, 10))))
	ic.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(5, 5)}})
	ic.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 1)})
	ic.DragEnd()

	_, ok := ic.Frame()
	assert.False(t, ok)
	assert.False(t, ic.image.Visible())
}
