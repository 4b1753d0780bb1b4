// Package viewer implements the fit, pan and zoom engine behind the
// product inspection overlay. It has no UI dependency: input arrives through
// InputHandler and output leaves through RenderSink.
package viewer

import (
	"math"

	"gallery/pkg/geometry"
)

// Bounds used before any fit result exists.
const (
	DefaultMinScale = 1.0
	DefaultMaxScale = 6.0
)

// TransformState describes how the inspected image is currently displayed
// relative to its natural size. Offsets are viewport pixels applied after
// scaling, relative to the centered position, and are never clamped.
type TransformState struct {
	Scale    float64
	OffsetX  float64
	OffsetY  float64
	MinScale float64
	MaxScale float64
}

// DefaultState returns the identity view with fallback bounds [1, 6].
func DefaultState() TransformState {
	return TransformState{
		Scale:    1,
		MinScale: DefaultMinScale,
		MaxScale: DefaultMaxScale,
	}
}

// Offset returns the translation as a point.
func (s TransformState) Offset() geometry.Point2D {
	return geometry.NewPoint2D(s.OffsetX, s.OffsetY)
}

// SetOffset replaces the translation.
func (s *TransformState) SetOffset(p geometry.Point2D) {
	s.OffsetX = p.X
	s.OffsetY = p.Y
}

// SetScale stores v clamped to the current bounds. Non-finite values leave
// the scale unchanged.
func (s *TransformState) SetScale(v float64) {
	if !finite(v) {
		return
	}
	s.Scale = clamp(v, s.MinScale, s.MaxScale)
}

// InBounds reports whether Scale lies within [MinScale, MaxScale].
func (s TransformState) InBounds() bool {
	return s.Scale > 0 && s.Scale >= s.MinScale && s.Scale <= s.MaxScale
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteSize(sz geometry.Size) bool {
	return finite(sz.Width) && finite(sz.Height)
}
