package scene

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"drawboard/internal/geom"
	"drawboard/internal/mindtree"
	"drawboard/internal/viewport"
)

// Snapshot is the persisted form of a board. Tree is only present in data
// written by the legacy tree editor.
type Snapshot struct {
	Elements []Element
	Viewport viewport.State
	Tree     *mindtree.Record
}

func (s Snapshot) Empty() bool {
	return len(s.Elements) == 0 && s.Tree == nil
}

type record struct {
	Kind      Kind         `json:"kind"`
	ID        string       `json:"id"`
	Shape     ShapeKind    `json:"shape,omitempty"`
	Position  *geom.Point  `json:"position,omitempty"`
	Size      *geom.Size   `json:"size,omitempty"`
	Label     string       `json:"label,omitempty"`
	Formatted []byte       `json:"formatted,omitempty"`
	ParentID  string       `json:"parentId,omitempty"`
	Points    []geom.Point `json:"points,omitempty"`
	From      *Binding     `json:"from,omitempty"`
	To        *Binding     `json:"to,omitempty"`
	Curved    bool         `json:"curved,omitempty"`
	Color     string       `json:"color,omitempty"`
	Pinned    bool         `json:"pinned,omitempty"`
	Created   *time.Time   `json:"created,omitempty"`
}

type snapshotJSON struct {
	Elements []record         `json:"elements"`
	Viewport viewport.State   `json:"viewport"`
	Tree     *mindtree.Record `json:"tree,omitempty"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{Elements: make([]record, 0, len(s.Elements)), Viewport: s.Viewport, Tree: s.Tree}
	for _, e := range s.Elements {
		out.Elements = append(out.Elements, toRecord(e))
	}
	return json.Marshal(out)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.Viewport = in.Viewport
	s.Tree = in.Tree
	s.Elements = make([]Element, 0, len(in.Elements))
	for i, rec := range in.Elements {
		e, err := fromRecord(rec)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		s.Elements = append(s.Elements, e)
	}
	return nil
}

func toRecord(e Element) record {
	switch e := e.(type) {
	case *Shape:
		return record{Kind: KindShape, ID: e.ID, Shape: e.Shape, Position: &e.Position, Size: &e.Size, Label: e.Label, Formatted: e.Formatted}
	case *Text:
		return record{Kind: KindText, ID: e.ID, Position: &e.Position, Label: e.Label, Formatted: e.Formatted}
	case *MindNode:
		return record{Kind: KindMindNode, ID: e.ID, Position: &e.Position, Label: e.Label, Formatted: e.Formatted, ParentID: e.ParentID}
	case *Note:
		rec := record{Kind: KindNote, ID: e.ID, Position: &e.Position, Label: e.Label, Formatted: e.Formatted, Color: e.Color, Pinned: e.Pinned}
		if !e.Created.IsZero() {
			rec.Created = &e.Created
		}
		return rec
	case *Stroke:
		return record{Kind: KindStroke, ID: e.ID, Points: e.Points}
	case *Connector:
		return record{Kind: KindConnector, ID: e.ID, From: &e.From, To: &e.To, Curved: e.Curved}
	default:
		panic(fmt.Sprintf("scene: unknown element %T", e))
	}
}

func fromRecord(r record) (Element, error) {
	var pos geom.Point
	if r.Position != nil {
		pos = *r.Position
	}
	switch r.Kind {
	case KindShape:
		var size geom.Size
		if r.Size != nil {
			size = *r.Size
		}
		return &Shape{ID: r.ID, Shape: r.Shape, Position: pos, Size: size, Label: r.Label, Formatted: r.Formatted}, nil
	case KindText:
		return &Text{ID: r.ID, Position: pos, Label: r.Label, Formatted: r.Formatted}, nil
	case KindMindNode:
		return &MindNode{ID: r.ID, Position: pos, Label: r.Label, Formatted: r.Formatted, ParentID: r.ParentID}, nil
	case KindNote:
		n := &Note{ID: r.ID, Position: pos, Label: r.Label, Formatted: r.Formatted, Color: r.Color, Pinned: r.Pinned}
		if r.Created != nil {
			n.Created = *r.Created
		}
		return n, nil
	case KindStroke:
		return &Stroke{ID: r.ID, Points: r.Points}, nil
	case KindConnector:
		if r.From == nil || r.To == nil {
			return nil, fmt.Errorf("connector %s: missing binding", r.ID)
		}
		return &Connector{ID: r.ID, From: *r.From, To: *r.To, Curved: r.Curved}, nil
	default:
		return nil, fmt.Errorf("unknown element kind %q", r.Kind)
	}
}

// Snapshot copies the store's elements. The caller fills in the viewport.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Elements: s.All()}
}

// Restore replaces the store's content with the snapshot's elements, keeping
// their ids and order. Elements with invalid geometry are skipped, and
// connectors whose bindings no longer resolve are dropped.
func (s *Store) Restore(snap Snapshot) {
	s.Clear()
	for _, e := range snap.Elements {
		if !validate(e) || e.ElementID() == "" || s.Has(e.ElementID()) {
			s.log.Warn("skipping invalid element in snapshot",
				zap.String("id", e.ElementID()), zap.String("kind", string(e.Kind())))
			continue
		}
		e = e.clone()
		s.elements[e.ElementID()] = e
		s.order = append(s.order, e.ElementID())
	}
	for _, id := range s.IDs() {
		switch e := s.elements[id].(type) {
		case *MindNode:
			if _, ok := s.elements[e.ParentID].(*MindNode); e.ParentID != "" && !ok {
				s.log.Warn("detaching mind node from missing parent", zap.String("id", id))
				e.ParentID = ""
			}
		case *Connector:
			if s.checkBinding(e.From) != nil || s.checkBinding(e.To) != nil {
				s.log.Warn("dropping connector with dangling binding", zap.String("id", id))
				s.Remove(id)
				continue
			}
			s.connectors.track(e)
		}
	}
	s.connectors.Refresh()
}
