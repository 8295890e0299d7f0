// Package editor turns pointer and key input into scene mutations. A Session
// owns the interaction state of one board: the active tool, the selection,
// the in-flight gesture and the pending connector endpoint.
package editor

import (
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"drawboard/internal/apperr"
	"drawboard/internal/geom"
	"drawboard/internal/scene"
	"drawboard/internal/viewport"
)

// DefaultMinShapeSize is the rubber band extent, in scene units, that one
// side must exceed to create a shape.
const DefaultMinShapeSize = 5

const (
	defaultTextLabel  = "Text"
	defaultRootLabel  = "Central Theme"
	defaultChildLabel = "Child Node"
)

// PointerEvent is a mouse or touch event in screen space.
type PointerEvent struct {
	X       float64
	Y       float64
	Primary bool
}

func (ev PointerEvent) point() geom.Point {
	return geom.Pt(ev.X, ev.Y)
}

type gesture int

const (
	gestureNone gesture = iota
	gesturePan
	gestureBand
	gestureDraw
)

type Session struct {
	store   *scene.Store
	view    *viewport.Viewport
	drag    *DragController
	confirm Confirmer
	sched   Scheduler
	log     *zap.Logger

	threshold    float64
	minShapeSize float64
	now          func() time.Time
	noteColor    string

	tool     Tool
	selected string
	editing  string

	gesture   gesture
	lastPan   geom.Point
	bandStart geom.Point
	bandEnd   geom.Point
	stroke    []geom.Point
	pending   *scene.Binding
}

type Option func(*Session)

func WithScheduler(sched Scheduler) Option {
	return func(s *Session) {
		s.sched = sched
	}
}

func WithConfirmer(c Confirmer) Option {
	return func(s *Session) {
		s.confirm = c
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

func WithDragThreshold(units float64) Option {
	return func(s *Session) {
		s.threshold = units
	}
}

func WithMinShapeSize(units float64) Option {
	return func(s *Session) {
		s.minShapeSize = units
	}
}

// WithClock replaces time.Now as the source of note timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func NewSession(store *scene.Store, view *viewport.Viewport, opts ...Option) *Session {
	s := &Session{
		store:        store,
		view:         view,
		confirm:      AutoConfirm(true),
		sched:        ImmediateScheduler{},
		log:          zap.NewNop(),
		threshold:    DefaultDragThreshold,
		minShapeSize: DefaultMinShapeSize,
		now:          time.Now,
		noteColor:    scene.NoteColors[0],
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("component", "editor"))
	s.drag = NewDragController(store, view, s.sched, s.threshold, s.log)
	return s
}

func (s *Session) Store() *scene.Store          { return s.store }
func (s *Session) Viewport() *viewport.Viewport { return s.view }
func (s *Session) Drag() *DragController        { return s.drag }
func (s *Session) Tool() Tool                   { return s.tool }
func (s *Session) Selected() string             { return s.selected }
func (s *Session) Editing() string              { return s.editing }
func (s *Session) NoteColor() string            { return s.noteColor }

// Cursor is the pointer hint for the current tool and gesture.
func (s *Session) Cursor() string {
	if s.gesture == gesturePan || s.drag.State() == DragDragging {
		return "grabbing"
	}
	return s.tool.Cursor()
}

// PendingBinding returns the first endpoint of a half-made connector.
func (s *Session) PendingBinding() (scene.Binding, bool) {
	if s.pending == nil {
		return scene.Binding{}, false
	}
	return *s.pending, true
}

// Band returns the rubber band of a shape being created.
func (s *Session) Band() (geom.Rect, bool) {
	if s.gesture != gestureBand {
		return geom.Rect{}, false
	}
	return geom.RectFrom(s.bandStart, s.bandEnd), true
}

// StrokePreview returns the points of a stroke being drawn.
func (s *Session) StrokePreview() []geom.Point {
	if s.gesture != gestureDraw {
		return nil
	}
	return append([]geom.Point(nil), s.stroke...)
}

// SelectTool switches the active tool. Choosing the connector tool while a
// connector is half made cancels it.
func (s *Session) SelectTool(t Tool) {
	if s.pending != nil {
		s.log.Debug("connector cancelled", zap.String("from", s.pending.String()))
		s.pending = nil
	}
	if t == s.tool {
		return
	}
	s.abortGesture()
	s.tool = t
}

func (s *Session) Select(id string) {
	if id != "" && !s.store.Has(id) {
		id = ""
	}
	s.selected = id
	if s.editing != id {
		s.editing = ""
	}
}

func (s *Session) ClearSelection() {
	s.selected = ""
	s.editing = ""
}

func (s *Session) PointerDown(ev PointerEvent) error {
	if !ev.Primary {
		return nil
	}
	screen := ev.point()
	p, err := s.view.ToScene(screen)
	if err != nil {
		return err
	}

	switch s.tool {
	case ToolSelect:
		id := s.HitTest(p)
		if id == "" {
			s.ClearSelection()
			return nil
		}
		s.Select(id)
		if e, err := s.store.Get(id); err == nil && e.Kind() == scene.KindNote {
			s.store.BringToFront(id)
		}
		if id == s.editing {
			return nil
		}
		if err := s.drag.Arm(id, screen); err != nil && !apperr.IsInvalidGeometry(err) && !errors.Is(err, ErrPinned) {
			return err
		}
	case ToolPan:
		s.gesture = gesturePan
		s.lastPan = screen
	case ToolRect, ToolCircle, ToolTriangle, ToolDiamond, ToolStar, ToolHexagon:
		s.gesture = gestureBand
		s.bandStart, s.bandEnd = p, p
	case ToolText:
		id, err := s.store.Insert(&scene.Text{Position: p, Label: defaultTextLabel})
		if err != nil {
			return err
		}
		s.SelectTool(ToolSelect)
		s.Select(id)
		s.editing = id
	case ToolConnector:
		return s.connectorClick(p)
	case ToolDraw:
		s.gesture = gestureDraw
		s.stroke = []geom.Point{p}
	case ToolErase:
		if id := s.HitTest(p); id != "" {
			s.store.Remove(id)
			s.dropStaleSelection()
		}
	case ToolMind:
		return s.addMindNode(p)
	case ToolNote:
		id, err := s.store.Insert(&scene.Note{Position: p, Color: s.noteColor, Created: s.now()})
		if err != nil {
			return err
		}
		s.SelectTool(ToolSelect)
		s.Select(id)
		s.editing = id
	}
	return nil
}

func (s *Session) PointerMove(ev PointerEvent) error {
	screen := ev.point()
	if !screen.Finite() {
		return apperr.InvalidGeometry("pointer %v", screen)
	}
	if s.drag.State() != DragIdle {
		s.drag.Move(screen)
		return nil
	}
	switch s.gesture {
	case gesturePan:
		d := screen.Sub(s.lastPan)
		s.lastPan = screen
		return s.view.Pan(d.X, d.Y)
	case gestureBand:
		p, err := s.view.ToScene(screen)
		if err != nil {
			return err
		}
		s.bandEnd = p
	case gestureDraw:
		p, err := s.view.ToScene(screen)
		if err != nil {
			return err
		}
		if last := s.stroke[len(s.stroke)-1]; last != p {
			s.stroke = append(s.stroke, p)
		}
	}
	return nil
}

func (s *Session) PointerUp(ev PointerEvent) error {
	screen := ev.point()
	if !screen.Finite() {
		s.PointerCancel()
		return apperr.InvalidGeometry("pointer %v", screen)
	}
	defer s.dropStaleSelection()
	if s.drag.State() != DragIdle {
		s.drag.Release(screen)
		return nil
	}
	g := s.gesture
	s.gesture = gestureNone
	switch g {
	case gestureBand:
		p, err := s.view.ToScene(screen)
		if err != nil {
			return err
		}
		s.bandEnd = p
		return s.commitShape()
	case gestureDraw:
		stroke := s.stroke
		s.stroke = nil
		if len(stroke) <= 2 {
			return nil
		}
		id, err := s.store.Insert(&scene.Stroke{Points: stroke})
		if err != nil {
			return err
		}
		s.SelectTool(ToolSelect)
		s.Select(id)
	}
	return nil
}

// PointerCancel handles the pointer leaving the surface. A drag in progress
// is rolled back and any other gesture is discarded.
func (s *Session) PointerCancel() {
	s.drag.Cancel()
	s.abortGesture()
}

// Wheel zooms one step per notch; positive dy scrolls down and zooms out.
func (s *Session) Wheel(dy float64) error {
	switch {
	case dy > 0:
		return s.view.ZoomBy(-viewport.ZoomStep)
	case dy < 0:
		return s.view.ZoomBy(viewport.ZoomStep)
	case math.IsNaN(dy):
		return apperr.InvalidGeometry("wheel delta %v", dy)
	}
	return nil
}

// Key handles tool shortcuts and editor commands. It reports whether the key
// was consumed.
func (s *Session) Key(key string) bool {
	if t, ok := ToolForKey(key); ok {
		s.SelectTool(t)
		return true
	}
	switch key {
	case "delete", "backspace":
		s.DeleteSelected()
	case "esc":
		s.pending = nil
		s.PointerCancel()
		s.ClearSelection()
	case "+", "=":
		_ = s.view.ZoomBy(viewport.ZoomStep)
	case "-":
		_ = s.view.ZoomBy(-viewport.ZoomStep)
	case "0":
		s.view.Reset()
	case "i":
		s.TogglePin()
	case "k":
		s.CycleNoteColor()
	case "f":
		s.BringToFront()
	default:
		return false
	}
	return true
}

func (s *Session) commitShape() error {
	kind, ok := s.tool.ShapeKind()
	if !ok {
		return nil
	}
	band := geom.RectFrom(s.bandStart, s.bandEnd)
	if band.W() <= s.minShapeSize && band.H() <= s.minShapeSize {
		return nil
	}
	// a flat band still gets one cell of thickness
	size := geom.Size{W: math.Max(band.W(), 1), H: math.Max(band.H(), 1)}
	if kind == scene.ShapeCircle {
		side := math.Max(size.W, size.H)
		size = geom.Size{W: side, H: side}
	}
	id, err := s.store.Insert(&scene.Shape{Shape: kind, Position: band.Min, Size: size})
	if err != nil {
		return err
	}
	s.SelectTool(ToolSelect)
	s.Select(id)
	return nil
}

func (s *Session) connectorClick(p geom.Point) error {
	b := scene.PointBinding(p.X, p.Y)
	if id := s.hitTest(p, false); id != "" {
		b = scene.ElementBinding(id)
	}
	if s.pending == nil {
		s.pending = &b
		return nil
	}
	from := *s.pending
	s.pending = nil
	if from.Attached() && from.ElementID == b.ElementID {
		return nil
	}
	id, err := s.store.Insert(&scene.Connector{From: from, To: b})
	if err != nil {
		if apperr.IsBindingDangling(err) {
			s.log.Warn("connector start vanished", zap.String("from", from.String()))
			return nil
		}
		return err
	}
	s.Select(id)
	return nil
}

// addMindNode creates a mind node at p. With a mind node selected the new
// node becomes its child and is wired to it with a curved connector.
func (s *Session) addMindNode(p geom.Point) error {
	node := &scene.MindNode{Position: p, Label: defaultRootLabel}
	if parent, err := s.store.Get(s.selected); err == nil && parent.Kind() == scene.KindMindNode {
		node.ParentID = parent.ElementID()
		node.Label = defaultChildLabel
	}
	id, err := s.store.Insert(node)
	if err != nil {
		return err
	}
	if node.ParentID != "" {
		edge := &scene.Connector{From: scene.ElementBinding(node.ParentID), To: scene.ElementBinding(id), Curved: true}
		if _, err := s.store.Insert(edge); err != nil {
			return err
		}
	}
	s.SelectTool(ToolSelect)
	s.Select(id)
	s.editing = id
	return nil
}

func (s *Session) abortGesture() {
	s.gesture = gestureNone
	s.stroke = nil
}

func (s *Session) dropStaleSelection() {
	if s.selected != "" && !s.store.Has(s.selected) {
		s.ClearSelection()
	}
}
