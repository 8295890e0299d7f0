// Package viewport converts between screen space and scene space.
//
// A screen point p maps to the scene point (p - pan) / zoom. Zoom is always
// kept inside the configured limits and is applied about the origin, so
// changing it never touches the pan offset. Pan is unbounded.
package viewport

import (
	"drawboard/internal/apperr"
	"drawboard/internal/geom"
)

const (
	DefaultZoomMin = 0.3
	DefaultZoomMax = 2.0
	// ZoomStep is the zoom change applied per wheel notch or zoom key.
	ZoomStep = 0.1
)

type Limits struct {
	Min float64
	Max float64
}

func DefaultLimits() Limits {
	return Limits{Min: DefaultZoomMin, Max: DefaultZoomMax}
}

// State is the persisted part of a viewport.
type State struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

type Viewport struct {
	zoom   float64
	panX   float64
	panY   float64
	limits Limits
}

func New(limits Limits) *Viewport {
	if limits.Min <= 0 || limits.Max < limits.Min {
		limits = DefaultLimits()
	}
	v := &Viewport{limits: limits}
	v.Reset()
	return v
}

func (v *Viewport) Zoom() float64              { return v.zoom }
func (v *Viewport) Offset() (float64, float64) { return v.panX, v.panY }
func (v *Viewport) Limits() Limits             { return v.limits }

// ToScene maps a screen point into scene space.
func (v *Viewport) ToScene(p geom.Point) (geom.Point, error) {
	if !p.Finite() {
		return geom.Point{}, apperr.InvalidGeometry("screen point %v", p)
	}
	return geom.Point{X: (p.X - v.panX) / v.zoom, Y: (p.Y - v.panY) / v.zoom}, nil
}

// ToScreen maps a scene point into screen space.
func (v *Viewport) ToScreen(p geom.Point) (geom.Point, error) {
	if !p.Finite() {
		return geom.Point{}, apperr.InvalidGeometry("scene point %v", p)
	}
	return geom.Point{X: p.X*v.zoom + v.panX, Y: p.Y*v.zoom + v.panY}, nil
}

// SetZoom clamps z into the limits. Pan is left unchanged.
func (v *Viewport) SetZoom(z float64) error {
	if !geom.Finite(z) {
		return apperr.InvalidGeometry("zoom %v", z)
	}
	v.zoom = v.clamp(z)
	return nil
}

// ZoomBy adds delta to the current zoom, clamped.
func (v *Viewport) ZoomBy(delta float64) error {
	if !geom.Finite(delta) {
		return apperr.InvalidGeometry("zoom delta %v", delta)
	}
	return v.SetZoom(v.zoom + delta)
}

// Pan adds a raw screen-space delta to the pan offset.
func (v *Viewport) Pan(dx, dy float64) error {
	if !geom.Finite(dx, dy) {
		return apperr.InvalidGeometry("pan delta (%v, %v)", dx, dy)
	}
	v.panX += dx
	v.panY += dy
	return nil
}

func (v *Viewport) Reset() {
	v.zoom = v.clamp(1)
	v.panX, v.panY = 0, 0
}

func (v *Viewport) State() State {
	return State{Zoom: v.zoom, PanX: v.panX, PanY: v.panY}
}

// Restore loads a persisted state. A zero zoom (older snapshots) becomes 1.
func (v *Viewport) Restore(s State) error {
	if !geom.Finite(s.Zoom, s.PanX, s.PanY) {
		return apperr.InvalidGeometry("viewport state %+v", s)
	}
	if s.Zoom == 0 {
		s.Zoom = 1
	}
	v.zoom = v.clamp(s.Zoom)
	v.panX, v.panY = s.PanX, s.PanY
	return nil
}

func (v *Viewport) clamp(z float64) float64 {
	if z < v.limits.Min {
		return v.limits.Min
	}
	if z > v.limits.Max {
		return v.limits.Max
	}
	return z
}
