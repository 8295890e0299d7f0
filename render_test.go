package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawboard/internal/editor"
	"drawboard/internal/geom"
	"drawboard/internal/scene"
	"drawboard/internal/viewport"
)

func newRenderSession(t *testing.T) (*editor.Session, *scene.Store) {
	t.Helper()
	store := scene.NewStore()
	return editor.NewSession(store, viewport.New(viewport.DefaultLimits())), store
}

func insertRect(t *testing.T, store *scene.Store, x, y, w, h float64, label string) string {
	t.Helper()
	id, err := store.Insert(&scene.Shape{Shape: scene.ShapeRect, Position: geom.Pt(x, y), Size: geom.Size{W: w, H: h}, Label: label})
	require.NoError(t, err)
	return id
}

func TestRenderBoard_RectWithLabel(t *testing.T) {
	s, store := newRenderSession(t)
	insertRect(t, store, 0, 0, 10, 5, "hi")

	lines := renderBoard(s, 12, 6, renderOptions{})
	require.Len(t, lines, 6)
	assert.Equal(t, "+--------+  ", lines[0])
	assert.Equal(t, "|   hi   |  ", lines[2])
	assert.Equal(t, "+--------+  ", lines[4])
	assert.Equal(t, strings.Repeat(" ", 12), lines[5])
}

func TestRenderBoard_FollowsZoomAndPan(t *testing.T) {
	s, store := newRenderSession(t)
	insertRect(t, store, 0, 0, 10, 5, "")
	require.NoError(t, s.Viewport().SetZoom(2))
	require.NoError(t, s.Viewport().Pan(3, 1))

	lines := renderBoard(s, 30, 12, renderOptions{})
	assert.Equal(t, "   +------------------+", strings.TrimRight(lines[1], " "))
	assert.Equal(t, "   +------------------+", strings.TrimRight(lines[10], " "))
	assert.Equal(t, byte('|'), lines[5][3])
	assert.Equal(t, byte('|'), lines[5][22])
}

func TestRenderBoard_ConnectorArrowStopsAtTarget(t *testing.T) {
	s, store := newRenderSession(t)
	a := insertRect(t, store, 0, 0, 10, 5, "")
	b := insertRect(t, store, 20, 0, 10, 5, "")
	_, err := store.Insert(&scene.Connector{From: scene.ElementBinding(a), To: scene.ElementBinding(b)})
	require.NoError(t, err)

	lines := renderBoard(s, 32, 6, renderOptions{})
	assert.Equal(t, "--------->", lines[3][10:20])
	assert.Equal(t, byte('+'), lines[0][20])
}

func TestRenderBoard_TextAndMindNode(t *testing.T) {
	s, store := newRenderSession(t)
	_, err := store.Insert(&scene.Text{Position: geom.Pt(1, 0), Label: "one\ntwo"})
	require.NoError(t, err)
	_, err = store.Insert(&scene.MindNode{Position: geom.Pt(0, 3), Label: "idea"})
	require.NoError(t, err)

	lines := renderBoard(s, 12, 6, renderOptions{})
	assert.Equal(t, " one", strings.TrimRight(lines[0], " "))
	assert.Equal(t, " two", strings.TrimRight(lines[1], " "))
	assert.Equal(t, "╭──────╮", strings.TrimRight(lines[3], " "))
	assert.Equal(t, "│ idea │", strings.TrimRight(lines[4], " "))
	assert.Equal(t, "╰──────╯", strings.TrimRight(lines[5], " "))
}

func TestRenderBoard_SelectedBoxUsesHashBorder(t *testing.T) {
	s, store := newRenderSession(t)
	id := insertRect(t, store, 0, 0, 6, 3, "")
	s.Select(id)

	lines := renderBoard(s, 8, 3, renderOptions{})
	assert.Equal(t, "######  ", lines[0])
	assert.Equal(t, "#    #  ", lines[1])
}

func TestRenderBoard_Previews(t *testing.T) {
	s, store := newRenderSession(t)
	insertRect(t, store, 0, 0, 6, 3, "")

	s.SelectTool(editor.ToolConnector)
	require.NoError(t, s.PointerDown(editor.PointerEvent{X: 1, Y: 1, Primary: true}))
	// the source center (3, 1.5) rounds onto the bottom border
	lines := renderBoard(s, 8, 4, renderOptions{preview: true})
	assert.Equal(t, byte('o'), lines[2][3])

	without := renderBoard(s, 8, 4, renderOptions{})
	assert.Equal(t, byte('-'), without[2][3])

	s.SelectTool(editor.ToolRect)
	require.NoError(t, s.PointerDown(editor.PointerEvent{X: 0, Y: 0, Primary: true}))
	require.NoError(t, s.PointerMove(editor.PointerEvent{X: 3, Y: 2, Primary: true}))
	band := renderBoard(s, 8, 4, renderOptions{preview: true})
	assert.Equal(t, byte(':'), band[1][0])
}

func TestGrid_ClipsOutsideCells(t *testing.T) {
	g := newGrid(3, 2)
	g.text(-1, 0, "abcd")
	g.set(5, 5, 'x')
	g.line(geom.Pt(0, 1), geom.Pt(10, 1), 0)
	assert.Equal(t, []string{"bcd", "---"}, g.lines(false))
}

func TestRenderBoard_NoteShowsTimeAndPin(t *testing.T) {
	s, store := newRenderSession(t)
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	_, err := store.Insert(&scene.Note{Label: "buy milk", Pinned: true, Created: created})
	require.NoError(t, err)

	lines := renderBoard(s, 24, 7, renderOptions{})
	assert.True(t, strings.HasPrefix(lines[0], "┌──"))
	assert.True(t, strings.HasPrefix(lines[1], "│09:30"))
	assert.Contains(t, lines[1], "pinned│")
	assert.True(t, strings.HasPrefix(lines[2], "│buy milk"))
	assert.True(t, strings.HasPrefix(lines[5], "└──"))
}
