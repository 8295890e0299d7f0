package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawboard/internal/geom"
	"drawboard/internal/scene"
)

var noteTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func noteAt(x, y float64) *scene.Note {
	return &scene.Note{Position: geom.Pt(x, y), Color: scene.NoteColors[0], Created: noteTime}
}

func (f *fixture) note(t *testing.T, id string) *scene.Note {
	t.Helper()
	e, err := f.store.Get(id)
	require.NoError(t, err)
	n, ok := e.(*scene.Note)
	require.True(t, ok)
	return n
}

func TestSession_NoteToolPlacesAndFocuses(t *testing.T) {
	f := newFixture(t, WithClock(func() time.Time { return noteTime }))
	assert.True(t, f.session.Key("n"))
	require.Equal(t, ToolNote, f.session.Tool())

	f.press(t, 10, 4)

	require.Equal(t, 1, f.store.Len())
	id := f.store.IDs()[0]
	n := f.note(t, id)
	assert.Equal(t, geom.Pt(10, 4), n.Position)
	assert.Equal(t, scene.NoteColors[0], n.Color)
	assert.Equal(t, noteTime, n.Created)
	assert.False(t, n.Pinned)
	assert.Equal(t, id, f.session.Editing())
	assert.Equal(t, ToolSelect, f.session.Tool())
}

func TestDrag_PinnedNoteStaysPut(t *testing.T) {
	f := newFixture(t)
	id := f.insert(t, noteAt(0, 0))

	f.session.Select(id)
	assert.True(t, f.session.Key("i"))
	require.True(t, f.note(t, id).Pinned)

	require.NoError(t, f.session.PointerDown(ptr(5, 3)))
	assert.Equal(t, id, f.session.Selected(), "a pinned note can still be selected")
	assert.Equal(t, DragIdle, f.session.Drag().State())
	require.NoError(t, f.session.PointerUp(ptr(5, 3)))
	assert.ErrorIs(t, f.session.Drag().Arm(id, geom.Pt(5, 3)), ErrPinned)
	f.drag(t, geom.Pt(5, 3), geom.Pt(30, 3))
	assert.Equal(t, geom.Pt(0, 0), f.position(t, id))

	f.session.TogglePin()
	require.False(t, f.note(t, id).Pinned)
	f.drag(t, geom.Pt(5, 3), geom.Pt(30, 3))
	assert.Equal(t, geom.Pt(25, 0), f.position(t, id))
}

func TestSession_PressBringsNoteToFront(t *testing.T) {
	f := newFixture(t)
	n := f.insert(t, noteAt(0, 0))
	r := f.insert(t, rectAt(50, 0, 10, 10))
	assert.Equal(t, []string{n, r}, f.store.IDs())

	f.press(t, 2, 2)
	assert.Equal(t, []string{r, n}, f.store.IDs())

	// other elements only move up on request
	f.press(t, 55, 5)
	assert.Equal(t, []string{r, n}, f.store.IDs())
	assert.True(t, f.session.Key("f"))
	assert.Equal(t, []string{n, r}, f.store.IDs())
}

func TestSession_CycleNoteColor(t *testing.T) {
	f := newFixture(t)
	id := f.insert(t, noteAt(0, 0))

	f.session.Select(id)
	f.session.CycleNoteColor()
	assert.Equal(t, scene.NoteColors[1], f.note(t, id).Color)
	assert.Equal(t, scene.NoteColors[1], f.session.NoteColor())

	f.session.ClearSelection()
	assert.True(t, f.session.Key("k"))
	assert.Equal(t, scene.NoteColors[2], f.session.NoteColor())
	assert.Equal(t, scene.NoteColors[1], f.note(t, id).Color, "only the selected note is recolored")

	f.session.SelectTool(ToolNote)
	f.press(t, 40, 20)
	created := f.store.IDs()[1]
	assert.Equal(t, scene.NoteColors[2], f.note(t, created).Color)
}

func TestSession_DeleteNoteAsks(t *testing.T) {
	confirm := &recordingConfirmer{}
	f := newFixture(t, WithConfirmer(confirm))
	id := f.insert(t, noteAt(0, 0))

	f.session.Select(id)
	f.session.DeleteSelected()
	require.Len(t, confirm.prompts, 1)
	assert.Equal(t, "Delete Note", confirm.prompts[0].Title)
	confirm.done(true)
	assert.False(t, f.store.Has(id))
}

func TestSession_ClearDrawingsKeepsTheRest(t *testing.T) {
	confirm := &recordingConfirmer{}
	f := newFixture(t, WithConfirmer(confirm))
	r := f.insert(t, rectAt(0, 0, 10, 10))
	n := f.insert(t, noteAt(40, 0))
	s1 := f.insert(t, &scene.Stroke{Points: []geom.Point{geom.Pt(0, 20), geom.Pt(5, 22), geom.Pt(9, 20)}})
	f.insert(t, &scene.Stroke{Points: []geom.Point{geom.Pt(30, 30), geom.Pt(31, 35), geom.Pt(32, 30)}})
	f.insert(t, &scene.Connector{From: scene.ElementBinding(r), To: scene.ElementBinding(s1)})
	f.session.Select(s1)

	f.session.ClearDrawings()
	require.Len(t, confirm.prompts, 1)
	assert.Equal(t, "Clear All Drawings", confirm.prompts[0].Title)
	confirm.done(false)
	assert.Equal(t, 5, f.store.Len())

	f.session.ClearDrawings()
	confirm.done(true)
	assert.Equal(t, []string{r, n}, f.store.IDs(), "connectors bound to a stroke go with it")
	assert.Empty(t, f.session.Selected())
}
