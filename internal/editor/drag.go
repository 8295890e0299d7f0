package editor

import (
	"errors"

	"go.uber.org/zap"

	"drawboard/internal/apperr"
	"drawboard/internal/geom"
	"drawboard/internal/scene"
	"drawboard/internal/viewport"
)

// DefaultDragThreshold is the pointer travel, in screen units, that turns a
// press into a drag.
const DefaultDragThreshold = 5

// ErrPinned is returned when arming a drag on a pinned note.
var ErrPinned = errors.New("element is pinned")

type DragState int

const (
	DragIdle DragState = iota
	DragArmed
	DragDragging
)

func (s DragState) String() string {
	switch s {
	case DragArmed:
		return "armed"
	case DragDragging:
		return "dragging"
	default:
		return "idle"
	}
}

type dragSession struct {
	id           string
	pointerStart geom.Point
	elementStart geom.Point
}

// DragController moves one element at a time in response to pointer
// gestures. Moves are coalesced: however many pointer events arrive between
// two frames, the store sees one update carrying the latest position.
type DragController struct {
	store     *scene.Store
	view      *viewport.Viewport
	sched     Scheduler
	threshold float64
	log       *zap.Logger

	state   DragState
	session *dragSession

	scheduled  bool
	pending    geom.Point
	hasPending bool
	applied    int
}

func NewDragController(store *scene.Store, view *viewport.Viewport, sched Scheduler, threshold float64, log *zap.Logger) *DragController {
	if threshold <= 0 {
		threshold = DefaultDragThreshold
	}
	return &DragController{
		store:     store,
		view:      view,
		sched:     sched,
		threshold: threshold,
		log:       log,
	}
}

func (d *DragController) State() DragState {
	return d.state
}

// Target returns the id of the element under the current gesture.
func (d *DragController) Target() string {
	if d.session == nil {
		return ""
	}
	return d.session.id
}

// Applied counts the store updates made by drags.
func (d *DragController) Applied() int {
	return d.applied
}

// Arm records the start of a press on a draggable element.
func (d *DragController) Arm(id string, pointer geom.Point) error {
	e, err := d.store.Get(id)
	if err != nil {
		return err
	}
	if n, ok := e.(*scene.Note); ok && n.Pinned {
		return ErrPinned
	}
	pos, ok := scene.Position(e)
	if !ok {
		return apperr.InvalidGeometry("%s %s cannot be dragged", e.Kind(), id)
	}
	d.session = &dragSession{id: id, pointerStart: pointer, elementStart: pos}
	d.state = DragArmed
	d.hasPending = false
	return nil
}

// Move feeds a pointer position in screen space.
func (d *DragController) Move(pointer geom.Point) {
	if d.session == nil {
		return
	}
	if !d.store.Has(d.session.id) {
		d.teardown("element removed during drag")
		return
	}
	if d.state == DragArmed {
		if pointer.Dist(d.session.pointerStart) < d.threshold {
			return
		}
		d.state = DragDragging
	}
	d.pending = d.position(pointer)
	d.hasPending = true
	if !d.scheduled {
		d.scheduled = true
		d.sched.Schedule(d.flush)
	}
}

// Release ends the gesture. It reports true when the press never crossed
// the threshold, meaning it was a plain click.
func (d *DragController) Release(pointer geom.Point) bool {
	if d.session == nil {
		return false
	}
	s := d.session
	wasArmed := d.state == DragArmed
	if !d.store.Has(s.id) {
		d.teardown("element removed during drag")
		return false
	}
	if !wasArmed {
		d.pending = d.position(pointer)
		d.hasPending = true
		d.apply()
	}
	d.reset()
	return wasArmed
}

// Cancel abandons the gesture and puts the element back where it started.
func (d *DragController) Cancel() {
	if d.session == nil {
		return
	}
	s := d.session
	if d.state == DragDragging && d.store.Has(s.id) {
		if err := d.store.Update(s.id, scene.MoveTo(s.elementStart)); err != nil {
			d.log.Warn("restoring dragged element", zap.String("id", s.id), zap.Error(err))
		}
	}
	d.reset()
}

func (d *DragController) position(pointer geom.Point) geom.Point {
	delta := pointer.Sub(d.session.pointerStart).Scale(1 / d.view.Zoom())
	return d.session.elementStart.Add(delta)
}

func (d *DragController) flush() {
	d.scheduled = false
	if d.session == nil || d.state != DragDragging {
		return
	}
	d.apply()
}

// apply writes the pending position. The store update is what refreshes the
// connectors bound to the element.
func (d *DragController) apply() {
	if !d.hasPending {
		return
	}
	d.hasPending = false
	id := d.session.id
	err := d.store.Update(id, scene.MoveTo(d.pending))
	switch {
	case err == nil:
		d.applied++
	case apperr.IsNotFound(err):
		d.teardown("element removed during drag")
	default:
		d.log.Warn("drag update rejected", zap.String("id", id), zap.Error(err))
	}
}

func (d *DragController) teardown(reason string) {
	d.log.Debug(reason, zap.String("id", d.session.id))
	d.reset()
}

func (d *DragController) reset() {
	d.session = nil
	d.state = DragIdle
	d.hasPending = false
}
