// Package scene holds the authoritative element store of a board and the
// registry that keeps connector geometry attached to the elements it binds.
package scene

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"drawboard/internal/apperr"
	"drawboard/internal/geom"
)

// Store maps element ids to element records. Iteration order is insertion
// order, which is also the paint order (last inserted is on top).
//
// Every mutation notifies the connector registry synchronously, after the
// mutation has been applied.
type Store struct {
	elements   map[string]Element
	order      []string
	connectors *Registry
	log        *zap.Logger
	newID      func() string
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithIDGenerator replaces the uuid generator, mostly for tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		elements: make(map[string]Element),
		log:      zap.NewNop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("component", "scene"))
	s.connectors = newRegistry(s, s.log)
	return s
}

func (s *Store) Registry() *Registry {
	return s.connectors
}

// Insert adds e to the top of the scene and returns its id, generating one
// when e has none.
func (s *Store) Insert(e Element) (string, error) {
	if !validate(e) {
		s.log.Warn("rejected element with invalid geometry", zap.String("kind", string(e.Kind())))
		return "", apperr.InvalidGeometry("%s element", e.Kind())
	}
	if e.ElementID() == "" {
		e.setID(s.newID())
	}
	id := e.ElementID()
	if _, exists := s.elements[id]; exists {
		return "", apperr.Internal("insert", fmt.Errorf("duplicate element id %q", id))
	}

	switch e := e.(type) {
	case *Connector:
		if err := s.checkBinding(e.From); err != nil {
			return "", err
		}
		if err := s.checkBinding(e.To); err != nil {
			return "", err
		}
	case *MindNode:
		if e.ParentID != "" {
			if _, ok := s.elements[e.ParentID].(*MindNode); !ok {
				return "", apperr.NotFound("mind node parent %s", e.ParentID)
			}
		}
	}

	e = e.clone()
	s.elements[id] = e
	s.order = append(s.order, id)
	if c, ok := e.(*Connector); ok {
		s.connectors.track(c)
	}
	s.connectors.ElementChanged(id)
	return id, nil
}

// Update applies p to the element with the given id. The element is left
// untouched when the patch carries invalid geometry.
func (s *Store) Update(id string, p Patch) error {
	e, ok := s.elements[id]
	if !ok {
		return apperr.NotFound("element %s", id)
	}
	next := e.clone()
	if err := p.apply(next); err != nil {
		s.log.Warn("rejected update", zap.String("id", id), zap.Error(err))
		return err
	}
	if !validate(next) {
		s.log.Warn("rejected update with invalid geometry", zap.String("id", id))
		return apperr.InvalidGeometry("update %s", id)
	}
	s.elements[id] = next
	s.connectors.ElementChanged(id)
	return nil
}

// Remove deletes the element with the given id. Connectors bound to it are
// removed as well, and so is the subtree of a mind node. Removing an absent
// id is a no-op.
func (s *Store) Remove(id string) {
	e, ok := s.elements[id]
	if !ok {
		return
	}
	var children []string
	if _, ok := e.(*MindNode); ok {
		children = s.Children(id)
	}
	delete(s.elements, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for _, child := range children {
		s.Remove(child)
	}
	if _, ok := e.(*Connector); ok {
		s.connectors.untrack(id)
		return
	}
	s.connectors.ElementDeleted(id)
}

// Get returns a copy of the element with the given id.
func (s *Store) Get(id string) (Element, error) {
	e, ok := s.elements[id]
	if !ok {
		return nil, apperr.NotFound("element %s", id)
	}
	return e.clone(), nil
}

func (s *Store) Has(id string) bool {
	_, ok := s.elements[id]
	return ok
}

// All returns copies of every element in insertion order.
func (s *Store) All() []Element {
	all := make([]Element, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.elements[id].clone())
	}
	return all
}

// IDs returns element ids in insertion order.
func (s *Store) IDs() []string {
	return append([]string(nil), s.order...)
}

func (s *Store) Len() int {
	return len(s.order)
}

// Children returns the ids of the mind nodes whose parent is id, in
// insertion order.
func (s *Store) Children(id string) []string {
	var children []string
	for _, oid := range s.order {
		if n, ok := s.elements[oid].(*MindNode); ok && n.ParentID == id {
			children = append(children, oid)
		}
	}
	return children
}

// BringToFront moves the element to the top of the paint order. It reports
// false when id is absent.
func (s *Store) BringToFront(id string) bool {
	if _, ok := s.elements[id]; !ok {
		return false
	}
	for i, oid := range s.order {
		if oid == id {
			s.order = append(append(s.order[:i:i], s.order[i+1:]...), id)
			break
		}
	}
	return true
}

// RemoveKind deletes every element of kind k and returns how many went.
func (s *Store) RemoveKind(k Kind) int {
	n := 0
	for _, id := range s.IDs() {
		if e, ok := s.elements[id]; ok && e.Kind() == k {
			s.Remove(id)
			n++
		}
	}
	return n
}

func (s *Store) Clear() {
	s.elements = make(map[string]Element)
	s.order = nil
	s.connectors.reset()
}

// Bounds returns the axis-aligned bounding box of e in scene space.
func (s *Store) Bounds(e Element) geom.Rect {
	switch e := e.(type) {
	case *Shape:
		return geom.RectAt(e.Position, e.Size)
	case *Text:
		return geom.RectAt(e.Position, LabelSize(e.Label))
	case *MindNode:
		return geom.RectAt(e.Position, NodeSize(e.Label))
	case *Note:
		return geom.RectAt(e.Position, NoteSize(e.Label))
	case *Stroke:
		r, _ := geom.Bounds(e.Points)
		return r
	case *Connector:
		if p, ok := s.connectors.Path(e.ID); ok {
			return p.Bounds()
		}
		return geom.Rect{}
	default:
		panic(fmt.Sprintf("scene: unknown element %T", e))
	}
}

func (s *Store) checkBinding(b Binding) error {
	if !b.Attached() {
		return nil
	}
	target, ok := s.elements[b.ElementID]
	if !ok {
		return apperr.BindingDangling("binding to missing element %s", b.ElementID)
	}
	if target.Kind() == KindConnector {
		return apperr.BindingDangling("binding to connector %s", b.ElementID)
	}
	return nil
}
