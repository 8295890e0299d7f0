package scene

import (
	"fmt"
	"strings"
	"time"

	"drawboard/internal/geom"
)

type Kind string

const (
	KindShape     Kind = "shape"
	KindText      Kind = "text"
	KindMindNode  Kind = "mind"
	KindStroke    Kind = "stroke"
	KindConnector Kind = "connector"
	KindNote      Kind = "note"
)

type ShapeKind string

const (
	ShapeRect     ShapeKind = "rect"
	ShapeCircle   ShapeKind = "circle"
	ShapeTriangle ShapeKind = "triangle"
	ShapeDiamond  ShapeKind = "diamond"
	ShapeStar     ShapeKind = "star"
	ShapeHexagon  ShapeKind = "hexagon"
)

var ShapeKinds = []ShapeKind{ShapeRect, ShapeCircle, ShapeTriangle, ShapeDiamond, ShapeStar, ShapeHexagon}

func (k ShapeKind) Valid() bool {
	for _, s := range ShapeKinds {
		if s == k {
			return true
		}
	}
	return false
}

// Minimum footprint of labelled nodes, in scene units.
const (
	minNodeWidth  = 8
	minNodeHeight = 3
	minNoteWidth  = 22
	minNoteHeight = 6
)

// NoteColors is the sticky note palette. New notes take the first entry.
var NoteColors = []string{"#FFF4A3", "#FFB3D9", "#B3E5FC", "#C8F7C5", "#FFD8A8"}

// NextNoteColor returns the palette entry after c, wrapping around.
func NextNoteColor(c string) string {
	for i, nc := range NoteColors {
		if strings.EqualFold(nc, c) {
			return NoteColors[(i+1)%len(NoteColors)]
		}
	}
	return NoteColors[0]
}

// Element is one record of the scene. The set of implementations is closed:
// *Shape, *Text, *MindNode, *Stroke, *Connector and *Note.
type Element interface {
	ElementID() string
	Kind() Kind
	setID(id string)
	clone() Element
}

type Shape struct {
	ID        string
	Shape     ShapeKind
	Position  geom.Point
	Size      geom.Size
	Label     string
	Formatted []byte
}

type Text struct {
	ID        string
	Position  geom.Point
	Label     string
	Formatted []byte
}

// MindNode is a labelled node of the mind-map view. ParentID is empty for roots.
type MindNode struct {
	ID        string
	Position  geom.Point
	Label     string
	Formatted []byte
	ParentID  string
}

// Note is a sticky note. A pinned note stays where it is when dragged.
type Note struct {
	ID        string
	Position  geom.Point
	Label     string
	Formatted []byte
	Color     string
	Pinned    bool
	Created   time.Time
}

type Stroke struct {
	ID     string
	Points []geom.Point
}

type Connector struct {
	ID     string
	From   Binding
	To     Binding
	Curved bool
}

// Binding is a connector endpoint: attached to a live element when ElementID
// is set, otherwise fixed at Point.
type Binding struct {
	ElementID string     `json:"element,omitempty"`
	Point     geom.Point `json:"point"`
}

func ElementBinding(id string) Binding {
	return Binding{ElementID: id}
}

func PointBinding(x, y float64) Binding {
	return Binding{Point: geom.Pt(x, y)}
}

func (b Binding) Attached() bool {
	return b.ElementID != ""
}

func (b Binding) String() string {
	if b.Attached() {
		return "element:" + b.ElementID
	}
	return fmt.Sprintf("point:(%g,%g)", b.Point.X, b.Point.Y)
}

func (e *Shape) ElementID() string     { return e.ID }
func (e *Text) ElementID() string      { return e.ID }
func (e *MindNode) ElementID() string  { return e.ID }
func (e *Stroke) ElementID() string    { return e.ID }
func (e *Connector) ElementID() string { return e.ID }
func (e *Note) ElementID() string      { return e.ID }

func (e *Shape) Kind() Kind     { return KindShape }
func (e *Text) Kind() Kind      { return KindText }
func (e *MindNode) Kind() Kind  { return KindMindNode }
func (e *Stroke) Kind() Kind    { return KindStroke }
func (e *Connector) Kind() Kind { return KindConnector }
func (e *Note) Kind() Kind      { return KindNote }

func (e *Shape) setID(id string)     { e.ID = id }
func (e *Text) setID(id string)      { e.ID = id }
func (e *MindNode) setID(id string)  { e.ID = id }
func (e *Stroke) setID(id string)    { e.ID = id }
func (e *Connector) setID(id string) { e.ID = id }
func (e *Note) setID(id string)      { e.ID = id }

func (e *Shape) clone() Element {
	c := *e
	c.Formatted = cloneBytes(e.Formatted)
	return &c
}

func (e *Text) clone() Element {
	c := *e
	c.Formatted = cloneBytes(e.Formatted)
	return &c
}

func (e *MindNode) clone() Element {
	c := *e
	c.Formatted = cloneBytes(e.Formatted)
	return &c
}

func (e *Note) clone() Element {
	c := *e
	c.Formatted = cloneBytes(e.Formatted)
	return &c
}

func (e *Stroke) clone() Element {
	c := *e
	c.Points = append([]geom.Point(nil), e.Points...)
	return &c
}

func (e *Connector) clone() Element {
	c := *e
	return &c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// Label returns the editable label of e, if it has one.
func Label(e Element) (string, bool) {
	switch e := e.(type) {
	case *Shape:
		return e.Label, true
	case *Text:
		return e.Label, true
	case *MindNode:
		return e.Label, true
	case *Note:
		return e.Label, true
	case *Stroke, *Connector:
		return "", false
	default:
		panic(fmt.Sprintf("scene: unknown element %T", e))
	}
}

// Position returns the top-left corner used when dragging e. Connectors
// have no position of their own.
func Position(e Element) (geom.Point, bool) {
	switch e := e.(type) {
	case *Shape:
		return e.Position, true
	case *Text:
		return e.Position, true
	case *MindNode:
		return e.Position, true
	case *Note:
		return e.Position, true
	case *Stroke:
		r, ok := geom.Bounds(e.Points)
		return r.Min, ok
	case *Connector:
		return geom.Point{}, false
	default:
		panic(fmt.Sprintf("scene: unknown element %T", e))
	}
}

// LabelSize is the footprint of a multi-line label: one unit per character
// and one per line.
func LabelSize(label string) geom.Size {
	lines := strings.Split(label, "\n")
	w := 1
	for _, l := range lines {
		if n := len([]rune(l)); n > w {
			w = n
		}
	}
	return geom.Size{W: float64(w), H: float64(len(lines))}
}

// NodeSize is the footprint of a mind-map node: the label plus a one unit
// border, never smaller than the minimum node size.
func NodeSize(label string) geom.Size {
	s := LabelSize(label)
	w, h := s.W+2, s.H+2
	if w < minNodeWidth {
		w = minNodeWidth
	}
	if h < minNodeHeight {
		h = minNodeHeight
	}
	return geom.Size{W: w, H: h}
}

// NoteSize is the footprint of a sticky note: a header row above the label
// and a one unit border, never smaller than the default card.
func NoteSize(label string) geom.Size {
	s := LabelSize(label)
	w, h := s.W+2, s.H+3
	if w < minNoteWidth {
		w = minNoteWidth
	}
	if h < minNoteHeight {
		h = minNoteHeight
	}
	return geom.Size{W: w, H: h}
}

func validate(e Element) bool {
	switch e := e.(type) {
	case *Shape:
		return e.Shape.Valid() && e.Position.Finite() && e.Size.Finite() && e.Size.W >= 0 && e.Size.H >= 0
	case *Text:
		return e.Position.Finite()
	case *MindNode:
		return e.Position.Finite()
	case *Note:
		return e.Position.Finite()
	case *Stroke:
		for _, p := range e.Points {
			if !p.Finite() {
				return false
			}
		}
		return len(e.Points) > 0
	case *Connector:
		return e.From.Point.Finite() && e.To.Point.Finite()
	default:
		panic(fmt.Sprintf("scene: unknown element %T", e))
	}
}
