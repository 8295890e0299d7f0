package scene

import (
	"drawboard/internal/apperr"
	"drawboard/internal/geom"
)

// Patch is a partial update. Nil fields are left unchanged; fields that do
// not apply to the element kind are ignored.
type Patch struct {
	Position  *geom.Point
	Size      *geom.Size
	Label     *string
	Formatted []byte
	Points    []geom.Point
	Curved    *bool
	Color     *string
	Pinned    *bool
}

func MoveTo(p geom.Point) Patch {
	return Patch{Position: &p}
}

func Relabel(label string) Patch {
	return Patch{Label: &label}
}

func (p Patch) apply(e Element) error {
	if p.Position != nil && !p.Position.Finite() {
		return apperr.InvalidGeometry("position %v", *p.Position)
	}
	if p.Size != nil && (!p.Size.Finite() || p.Size.W < 0 || p.Size.H < 0) {
		return apperr.InvalidGeometry("size %v", *p.Size)
	}

	switch e := e.(type) {
	case *Shape:
		if p.Position != nil {
			e.Position = *p.Position
		}
		if p.Size != nil {
			e.Size = *p.Size
		}
		if p.Label != nil {
			e.Label = *p.Label
		}
		if p.Formatted != nil {
			e.Formatted = cloneBytes(p.Formatted)
		}
	case *Text:
		if p.Position != nil {
			e.Position = *p.Position
		}
		if p.Label != nil {
			e.Label = *p.Label
		}
		if p.Formatted != nil {
			e.Formatted = cloneBytes(p.Formatted)
		}
	case *MindNode:
		if p.Position != nil {
			e.Position = *p.Position
		}
		if p.Label != nil {
			e.Label = *p.Label
		}
		if p.Formatted != nil {
			e.Formatted = cloneBytes(p.Formatted)
		}
	case *Note:
		if p.Position != nil {
			e.Position = *p.Position
		}
		if p.Label != nil {
			e.Label = *p.Label
		}
		if p.Formatted != nil {
			e.Formatted = cloneBytes(p.Formatted)
		}
		if p.Color != nil {
			e.Color = *p.Color
		}
		if p.Pinned != nil {
			e.Pinned = *p.Pinned
		}
	case *Stroke:
		if p.Points != nil {
			e.Points = append([]geom.Point(nil), p.Points...)
		}
		if p.Position != nil {
			// translate so the bounding box origin lands on Position
			if r, ok := geom.Bounds(e.Points); ok {
				d := p.Position.Sub(r.Min)
				for i := range e.Points {
					e.Points[i] = e.Points[i].Add(d)
				}
			}
		}
	case *Connector:
		if p.Curved != nil {
			e.Curved = *p.Curved
		}
	}
	return nil
}
