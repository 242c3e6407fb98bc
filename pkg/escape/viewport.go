package escape

import (
	"fmt"
	"math"
)

const (
	DefaultMagnification = 200.0
	DefaultPanX          = 4.0
	DefaultPanY          = 2.0
)

// Viewport maps pixel coordinates onto the complex plane.
type Viewport struct {
	Magnification float64 `json:"magnification" yaml:"magnification"`
	PanX          float64 `json:"pan_x" yaml:"pan_x"`
	PanY          float64 `json:"pan_y" yaml:"pan_y"`
}

// DefaultViewport returns the viewport of the reference visualization.
func DefaultViewport() Viewport {
	return Viewport{
		Magnification: DefaultMagnification,
		PanX:          DefaultPanX,
		PanY:          DefaultPanY,
	}
}

// Validate checks that the viewport produces finite plane coordinates.
func (v Viewport) Validate() error {
	if math.IsNaN(v.Magnification) || math.IsInf(v.Magnification, 0) || v.Magnification <= 0 {
		return fmt.Errorf("magnification must be a positive finite number, got: %v", v.Magnification)
	}
	if math.IsNaN(v.PanX) || math.IsInf(v.PanX, 0) {
		return fmt.Errorf("pan x must be finite, got: %v", v.PanX)
	}
	if math.IsNaN(v.PanY) || math.IsInf(v.PanY, 0) {
		return fmt.Errorf("pan y must be finite, got: %v", v.PanY)
	}
	return nil
}

// Point returns the plane coordinates of pixel (px, py).
func (v Viewport) Point(px, py int) (x, y float64) {
	x = float64(px)/v.Magnification - v.PanX
	y = float64(py)/v.Magnification - v.PanY
	return x, y
}
