package viewer

import (
	"errors"
	"math"

	"gallery/pkg/geometry"
)

// ErrUnknownDimensions is returned when a fit is requested before the
// image's natural dimensions are known.
var ErrUnknownDimensions = errors.New("viewer: image dimensions not known")

const (
	minEffectiveViewport = 10.0
	fitMargin            = 0.95 // keeps edges off the viewport border

	minScaleFloor  = 0.1
	minScaleFactor = 0.5
	maxScaleFloor  = 2.0
	maxScaleFactor = 3.0
)

// Fit is the result of a contain fit: the initial scale plus the zoom range
// derived from it.
type Fit struct {
	Scale    float64
	MinScale float64
	MaxScale float64
}

// ComputeFit calculates the contain-fit scale of an image inside a padded
// viewport. The first display never exceeds natural size, and the zoom
// bounds scale with the fit so small images can still be magnified and large
// ones cannot shrink to nothing.
func ComputeFit(viewport, img geometry.Size, padding float64) (Fit, error) {
	if !img.Positive() {
		return Fit{}, ErrUnknownDimensions
	}

	ew := math.Max(minEffectiveViewport, viewport.Width-padding)
	eh := math.Max(minEffectiveViewport, viewport.Height-padding)

	contain := math.Min(ew/img.Width, eh/img.Height)
	scale := math.Min(1, contain) * fitMargin

	// Very large images fit below the 0.1 floor; the fit itself stays
	// reachable so the whole image remains visible.
	return Fit{
		Scale:    scale,
		MinScale: math.Min(scale, math.Max(minScaleFloor, scale*minScaleFactor)),
		MaxScale: math.Max(maxScaleFloor, scale*maxScaleFactor),
	}, nil
}

// State returns the transform state for this fit with the image centered.
func (f Fit) State() TransformState {
	return TransformState{
		Scale:    f.Scale,
		MinScale: f.MinScale,
		MaxScale: f.MaxScale,
	}
}
