package viewer

import (
	"fmt"

	"gallery/pkg/geometry"
)

// Frame is what the engine emits after every mutation: the transform to
// apply to the displayed image and the zoom readout text.
type Frame struct {
	Scale    float64
	OffsetX  float64
	OffsetY  float64
	MinScale float64
	MaxScale float64
	Label    string
}

// RenderSink receives a Frame after each state change.
type RenderSink interface {
	Render(Frame)
}

// RenderFunc adapts a plain function to RenderSink.
type RenderFunc func(Frame)

// Render implements RenderSink.
func (f RenderFunc) Render(fr Frame) { f(fr) }

// ZoomLabel formats a scale as a multiplier readout, e.g. "0.5×".
func ZoomLabel(scale float64) string {
	return fmt.Sprintf("%.1f×", scale)
}

func frameOf(s TransformState) Frame {
	return Frame{
		Scale:    s.Scale,
		OffsetX:  s.OffsetX,
		OffsetY:  s.OffsetY,
		MinScale: s.MinScale,
		MaxScale: s.MaxScale,
		Label:    ZoomLabel(s.Scale),
	}
}

// Affine returns the image-to-viewport transform for this frame: the image
// is scaled about its own center, centered in the viewport, then offset.
func (f Frame) Affine(viewport, img geometry.Size) geometry.AffineTransform {
	vc := viewport.Center()
	ic := img.Center()
	return geometry.Chain(
		geometry.Translation(vc.X+f.OffsetX, vc.Y+f.OffsetY),
		geometry.Scale(f.Scale, f.Scale),
		geometry.Translation(-ic.X, -ic.Y),
	)
}

// Placement returns the rectangle the image occupies in viewport coordinates.
func (f Frame) Placement(viewport, img geometry.Size) geometry.Rect {
	return f.Affine(viewport, img).ApplyRect(geometry.NewRect(0, 0, img.Width, img.Height))
}
