package editor

import (
	"strings"

	"go.uber.org/zap"

	"drawboard/internal/apperr"
	"drawboard/internal/geom"
	"drawboard/internal/mindtree"
	"drawboard/internal/scene"
)

// DeleteSelected asks for confirmation and then removes the selected
// element together with whatever depends on it.
func (s *Session) DeleteSelected() {
	id := s.selected
	if id == "" {
		return
	}
	e, err := s.store.Get(id)
	if err != nil {
		s.ClearSelection()
		return
	}
	p := Prompt{
		Title:        "Delete Element",
		Message:      "Delete this element? Connectors attached to it are deleted too.",
		ConfirmLabel: "Delete",
		ShowCancel:   true,
	}
	switch e.Kind() {
	case scene.KindConnector:
		p.Title = "Delete Connector"
		p.Message = "Delete this connector?"
	case scene.KindMindNode:
		if len(s.store.Children(id)) > 0 {
			p.Message = "Delete this node and all of its child nodes?"
		}
	case scene.KindNote:
		p.Title = "Delete Note"
		p.Message = "Are you sure you want to delete this note?"
	}
	s.confirm.Confirm(p, func(ok bool) {
		if !ok {
			return
		}
		s.store.Remove(id)
		s.dropStaleSelection()
		s.log.Debug("element deleted", zap.String("id", id))
	})
}

// ResetScene asks for confirmation and then replaces the board with the
// default mind map and a fresh viewport.
func (s *Session) ResetScene() {
	s.confirm.Confirm(Prompt{
		Title:        "Reset Board",
		Message:      "This will clear the board and start a new mind map.",
		ConfirmLabel: "Reset",
		ShowCancel:   true,
	}, func(ok bool) {
		if !ok {
			return
		}
		s.clear()
		s.view.Reset()
		if _, err := s.ImportTree(mindtree.Default(), geom.Point{}); err != nil {
			s.log.Error("seeding default mind map", zap.Error(err))
		}
	})
}

// ClearAll asks for confirmation and then removes every element. The
// viewport is kept.
func (s *Session) ClearAll() {
	s.confirm.Confirm(Prompt{
		Title:        "Clear All",
		Message:      "Remove every element from the board?",
		ConfirmLabel: "Clear",
		ShowCancel:   true,
	}, func(ok bool) {
		if ok {
			s.clear()
		}
	})
}

// ClearDrawings asks for confirmation and then removes every freehand
// stroke, leaving the rest of the board alone.
func (s *Session) ClearDrawings() {
	s.confirm.Confirm(Prompt{
		Title:        "Clear All Drawings",
		Message:      "Are you sure you want to clear all drawings?",
		ConfirmLabel: "Clear",
		ShowCancel:   true,
	}, func(ok bool) {
		if !ok {
			return
		}
		if s.gesture == gestureDraw {
			s.abortGesture()
		}
		n := s.store.RemoveKind(scene.KindStroke)
		s.dropStaleSelection()
		s.log.Debug("drawings cleared", zap.Int("strokes", n))
	})
}

// TogglePin pins or unpins the selected note.
func (s *Session) TogglePin() {
	n, ok := s.selectedNote()
	if !ok {
		return
	}
	pinned := !n.Pinned
	if err := s.store.Update(n.ID, scene.Patch{Pinned: &pinned}); err != nil {
		s.log.Warn("toggling pin", zap.String("id", n.ID), zap.Error(err))
	}
}

// CycleNoteColor moves to the next palette color. New notes take it, and so
// does the selected note.
func (s *Session) CycleNoteColor() {
	current := s.noteColor
	n, ok := s.selectedNote()
	if ok {
		current = n.Color
	}
	s.noteColor = scene.NextNoteColor(current)
	if !ok {
		return
	}
	color := s.noteColor
	if err := s.store.Update(n.ID, scene.Patch{Color: &color}); err != nil {
		s.log.Warn("recoloring note", zap.String("id", n.ID), zap.Error(err))
	}
}

// BringToFront raises the selected element to the top of the board.
func (s *Session) BringToFront() {
	if s.selected != "" {
		s.store.BringToFront(s.selected)
	}
}

func (s *Session) selectedNote() (*scene.Note, bool) {
	e, err := s.store.Get(s.selected)
	if err != nil {
		return nil, false
	}
	n, ok := e.(*scene.Note)
	return n, ok
}

// EditLabel replaces the label and formatted payload of a labelled element.
func (s *Session) EditLabel(id, label string, formatted []byte) error {
	e, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if _, ok := scene.Label(e); !ok {
		return apperr.InvalidGeometry("%s %s has no label", e.Kind(), id)
	}
	return s.store.Update(id, scene.Patch{Label: &label, Formatted: formatted})
}

// StartEditing selects a labelled element and puts it in label editing.
func (s *Session) StartEditing(id string) error {
	e, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if _, ok := scene.Label(e); !ok {
		return apperr.InvalidGeometry("%s %s has no label", e.Kind(), id)
	}
	s.Select(id)
	s.editing = id
	return nil
}

// FinishEditing leaves label editing. A text element left empty is removed.
func (s *Session) FinishEditing() {
	id := s.editing
	s.editing = ""
	e, err := s.store.Get(id)
	if err != nil {
		return
	}
	if t, ok := e.(*scene.Text); ok && strings.TrimSpace(t.Label) == "" {
		s.store.Remove(id)
		s.dropStaleSelection()
	}
}

// PasteText places text as a new Text element at the screen point at.
func (s *Session) PasteText(text string, at geom.Point) (string, error) {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	p, err := s.view.ToScene(at)
	if err != nil {
		return "", err
	}
	id, err := s.store.Insert(&scene.Text{Position: p, Label: text})
	if err != nil {
		return "", err
	}
	s.Select(id)
	return id, nil
}

// ImportTree places a legacy tree onto the board as mind nodes joined by
// curved connectors, with the root's corner at origin. Node ids are kept.
func (s *Session) ImportTree(root *mindtree.Node, origin geom.Point) ([]string, error) {
	if root == nil {
		return nil, nil
	}
	pos := mindtree.Layout(root, origin, scene.NodeSize)
	var ids []string
	var err error
	root.Walk(func(n *mindtree.Node) bool {
		node := &scene.MindNode{ID: n.ID, Position: pos[n.ID], Label: n.Text}
		if p := n.Parent(); p != nil {
			node.ParentID = p.ID
		}
		if _, err = s.store.Insert(node); err != nil {
			return false
		}
		ids = append(ids, n.ID)
		if node.ParentID != "" {
			edge := &scene.Connector{From: scene.ElementBinding(node.ParentID), To: scene.ElementBinding(n.ID), Curved: true}
			if _, err = s.store.Insert(edge); err != nil {
				return false
			}
		}
		return true
	})
	if err != nil {
		return ids, apperr.Wrap(err, "import tree")
	}
	return ids, nil
}

// Snapshot captures the board and its viewport.
func (s *Session) Snapshot() scene.Snapshot {
	snap := s.store.Snapshot()
	snap.Viewport = s.view.State()
	return snap
}

// Restore replaces the board with snap. A snapshot that only carries a
// legacy tree is imported as mind nodes.
func (s *Session) Restore(snap scene.Snapshot) error {
	s.reset()
	s.store.Restore(snap)
	if err := s.view.Restore(snap.Viewport); err != nil {
		s.log.Warn("ignoring invalid viewport in snapshot", zap.Error(err))
		s.view.Reset()
	}
	if len(snap.Elements) == 0 && snap.Tree != nil {
		root := mindtree.Deserialize(snap.Tree)
		if err := mindtree.Validate(root); err != nil {
			s.log.Warn("legacy tree has inconsistent levels", zap.Error(err))
		}
		if _, err := s.ImportTree(root, geom.Point{}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) clear() {
	s.reset()
	s.store.Clear()
}

func (s *Session) reset() {
	s.drag.Cancel()
	s.abortGesture()
	s.pending = nil
	s.ClearSelection()
}
