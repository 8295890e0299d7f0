package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"drawboard/internal/editor"
	"drawboard/internal/geom"
	"drawboard/internal/scene"
	"drawboard/internal/storage"
)

func newTestModel(t *testing.T, confirmations bool) *model {
	t.Helper()
	dir := t.TempDir()
	config := defaultConfig(dir)
	config.StartMenu = false
	config.Confirmations = confirmations
	config.SaveDirectory = filepath.Join(dir, "boards")
	config.LogFile = ""

	store, err := storage.Open(storage.Options{Kind: storage.KindFile, Directory: config.SaveDirectory})
	require.NoError(t, err)
	m := initialModel(config, zap.NewNop(), store)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func keys(m *model, ks ...string) {
	for _, k := range ks {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func key(m *model, t tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: t})
	return cmd
}

func mouse(m *model, typ tea.MouseEventType, x, y int) tea.Cmd {
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Type: typ})
	return cmd
}

func only(t *testing.T, m *model) scene.Element {
	t.Helper()
	all := m.session().Store().All()
	require.Len(t, all, 1)
	return all[0]
}

func TestModel_DrawAndDragRectangle(t *testing.T) {
	m := newTestModel(t, true)
	keys(m, "r")
	require.Equal(t, editor.ToolRect, m.session().Tool())

	// row 0 is the toolbar, so screen y is terminal y - 1
	mouse(m, tea.MouseLeft, 10, 5)
	mouse(m, tea.MouseMotion, 30, 15)
	mouse(m, tea.MouseRelease, 30, 15)

	shape, ok := only(t, m).(*scene.Shape)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(10, 4), shape.Position)
	assert.Equal(t, geom.Size{W: 20, H: 10}, shape.Size)
	assert.Equal(t, editor.ToolSelect, m.session().Tool())

	mouse(m, tea.MouseLeft, 20, 10)
	cmd := mouse(m, tea.MouseMotion, 25, 12)
	assert.NotNil(t, cmd, "a drag move waits for the next frame")
	m.Update(frameMsg{})
	moved, _ := m.session().Store().Get(shape.ID)
	assert.Equal(t, geom.Pt(15, 6), moved.(*scene.Shape).Position)

	mouse(m, tea.MouseLeft, 26, 12)
	mouse(m, tea.MouseRelease, 26, 12)
	moved, _ = m.session().Store().Get(shape.ID)
	assert.Equal(t, geom.Pt(16, 6), moved.(*scene.Shape).Position)
	assert.Equal(t, editor.DragIdle, m.session().Drag().State())
}

func TestModel_DeleteAsksFirst(t *testing.T) {
	m := newTestModel(t, true)
	id, err := m.session().Store().Insert(&scene.Shape{Shape: scene.ShapeRect, Size: geom.Size{W: 6, H: 6}})
	require.NoError(t, err)
	m.session().Select(id)

	key(m, tea.KeyDelete)
	assert.Equal(t, ModeConfirm, m.activeMode())
	assert.Contains(t, m.View(), "Delete Element")

	keys(m, "n")
	assert.Equal(t, ModeNormal, m.activeMode())
	assert.True(t, m.session().Store().Has(id))

	key(m, tea.KeyDelete)
	keys(m, "y")
	assert.False(t, m.session().Store().Has(id))
}

func TestModel_QuitWithoutConfirmations(t *testing.T) {
	m := newTestModel(t, false)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_TextToolEditsLabel(t *testing.T) {
	m := newTestModel(t, true)
	keys(m, "t")
	mouse(m, tea.MouseLeft, 5, 5)
	assert.Equal(t, ModeEditing, m.mode)
	assert.Equal(t, "Text", m.editText)
	mouse(m, tea.MouseRelease, 5, 5)
	assert.Equal(t, ModeEditing, m.mode)

	for range "Text" {
		key(m, tea.KeyBackspace)
	}
	keys(m, "H", "i")
	key(m, tea.KeyEnter)
	keys(m, "!")
	key(m, tea.KeyCtrlS)

	assert.Equal(t, ModeNormal, m.mode)
	label, _ := scene.Label(only(t, m))
	assert.Equal(t, "Hi\n!", label)
}

func TestModel_EscRestoresLabelAndDropsEmptyText(t *testing.T) {
	m := newTestModel(t, true)
	id, err := m.session().Store().Insert(&scene.Shape{Shape: scene.ShapeRect, Size: geom.Size{W: 8, H: 4}, Label: "keep"})
	require.NoError(t, err)
	m.session().Select(id)

	key(m, tea.KeyEnter)
	require.Equal(t, ModeEditing, m.mode)
	keys(m, "x", "y")
	label, _ := m.label(id)
	assert.Equal(t, "keepxy", label)
	key(m, tea.KeyEsc)
	label, _ = m.label(id)
	assert.Equal(t, "keep", label)
	assert.Equal(t, ModeNormal, m.mode)

	keys(m, "t")
	mouse(m, tea.MouseLeft, 40, 20)
	mouse(m, tea.MouseRelease, 40, 20)
	for range "Text" {
		key(m, tea.KeyBackspace)
	}
	key(m, tea.KeyCtrlS)
	assert.Equal(t, 1, m.session().Store().Len(), "empty text is discarded")
}

func TestModel_SaveAndOpen(t *testing.T) {
	m := newTestModel(t, true)
	_, err := m.session().Store().Insert(&scene.Shape{Shape: scene.ShapeDiamond, Position: geom.Pt(3, 3), Size: geom.Size{W: 9, H: 6}, Label: "why"})
	require.NoError(t, err)
	require.NoError(t, m.session().Viewport().SetZoom(1.5))

	key(m, tea.KeyCtrlS)
	require.Equal(t, ModeFileInput, m.mode)
	assert.Equal(t, FileOpSave, m.fileOp)
	keys(m, "p", "l", "a", "n")
	key(m, tea.KeyEnter)
	require.Equal(t, ModeNormal, m.mode, m.errorMessage)
	assert.Equal(t, "plan", m.currentBoard().name)
	assert.FileExists(t, filepath.Join(m.config.SaveDirectory, "plan.json"))

	key(m, tea.KeyCtrlO)
	require.Equal(t, ModeFileInput, m.mode)
	assert.Equal(t, []string{"plan"}, m.fileList)
	assert.Equal(t, "plan", m.filename)
	key(m, tea.KeyEnter)

	require.Len(t, m.boards, 2)
	assert.Equal(t, 1, m.current)
	opened := m.session()
	assert.Equal(t, 1.5, opened.Viewport().Zoom())
	label, _ := scene.Label(only(t, m))
	assert.Equal(t, "why", label)
	assert.Contains(t, m.View(), "Open Boards")

	key(m, tea.KeyTab)
	assert.Equal(t, 0, m.current)
}

func TestModel_OpenMissingBoard(t *testing.T) {
	m := newTestModel(t, true)
	key(m, tea.KeyCtrlO)
	assert.Empty(t, m.fileList)
	keys(m, "g", "h", "o", "s", "t")
	key(m, tea.KeyEnter)
	assert.Equal(t, ModeFileInput, m.mode)
	assert.Equal(t, "No board named ghost", m.errorMessage)
	key(m, tea.KeyEsc)
	assert.Equal(t, ModeNormal, m.mode)
}

func TestModel_SaveAsOverwriteAsks(t *testing.T) {
	m := newTestModel(t, true)
	ctx, cancel := storageContext()
	defer cancel()
	require.NoError(t, m.store.Save(ctx, "taken", scene.Snapshot{}))

	keys(m, "S")
	keys(m, "t", "a", "k", "e", "n")
	key(m, tea.KeyEnter)
	assert.Equal(t, ModeConfirm, m.activeMode())
	keys(m, "n")
	assert.Equal(t, ModeFileInput, m.mode)
	assert.Empty(t, m.currentBoard().name)

	key(m, tea.KeyEnter)
	keys(m, "y")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "taken", m.currentBoard().name)
}

func TestModel_ExportVisualTXT(t *testing.T) {
	m := newTestModel(t, true)
	_, err := m.session().Store().Insert(&scene.Shape{Shape: scene.ShapeRect, Size: geom.Size{W: 6, H: 3}, Label: "ok"})
	require.NoError(t, err)

	keys(m, "T")
	keys(m, "o", "u", "t")
	key(m, tea.KeyEnter)
	require.Equal(t, ModeNormal, m.mode, m.errorMessage)

	data, err := os.ReadFile(filepath.Join(m.config.SaveDirectory, "out.txt"))
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	assert.Equal(t, "+----+", lines[0])
	assert.Equal(t, "| ok |", lines[1])
	assert.Equal(t, "+----+", lines[2])
}

func TestModel_ExportPNG(t *testing.T) {
	m := newTestModel(t, true)
	_, err := m.session().Store().Insert(&scene.Shape{Shape: scene.ShapeCircle, Size: geom.Size{W: 6, H: 6}})
	require.NoError(t, err)

	keys(m, "E")
	keys(m, "p", "i", "c")
	key(m, tea.KeyEnter)
	require.Equal(t, ModeNormal, m.mode, m.errorMessage)
	data, err := os.ReadFile(filepath.Join(m.config.SaveDirectory, "pic.png"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestModel_ToolbarClickAndWheel(t *testing.T) {
	m := newTestModel(t, true)
	items := toolbarItems(m.width)
	mouse(m, tea.MouseLeft, items[editor.ToolDraw].start, 0)
	assert.Equal(t, editor.ToolDraw, m.session().Tool())
	assert.False(t, m.pressed)

	mouse(m, tea.MouseWheelUp, 10, 10)
	assert.InDelta(t, 1.1, m.session().Viewport().Zoom(), 1e-9)
	mouse(m, tea.MouseWheelDown, 10, 10)
	mouse(m, tea.MouseWheelDown, 10, 10)
	assert.InDelta(t, 0.9, m.session().Viewport().Zoom(), 1e-9)
}

func TestModel_ArrowKeysPan(t *testing.T) {
	m := newTestModel(t, true)
	key(m, tea.KeyLeft)
	key(m, tea.KeyShiftDown)
	x, y := m.session().Viewport().Offset()
	assert.Equal(t, float64(panStep), x)
	assert.Equal(t, float64(-2*panStep), y)
}

func TestModel_StartupMenu(t *testing.T) {
	m := newTestModel(t, true)
	m.boards = nil
	m.mode = ModeStartup
	assert.Contains(t, m.View(), "Welcome to drawboard!")

	keys(m, "m")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 7, m.session().Store().Len(), "default mind map: 4 nodes and 3 edges")
}

func TestModel_CloseLastBoardLeavesScratchBoard(t *testing.T) {
	m := newTestModel(t, false)
	_, err := m.session().Store().Insert(&scene.Text{Label: "x"})
	require.NoError(t, err)
	key(m, tea.KeyCtrlW)
	require.Len(t, m.boards, 1)
	assert.Equal(t, 0, m.session().Store().Len())
}

func TestModel_BoardBarAndToolbarRows(t *testing.T) {
	m := newTestModel(t, true)
	m.addBoard(m.newBoard("second"))
	require.True(t, m.showBoardBar())
	require.Equal(t, 1, m.toolbarRow())
	keys(m, "r")

	bar := m.boardBarItems()
	require.Len(t, bar, 2)
	assert.Equal(t, "[second]", bar[1].text)

	mouse(m, tea.MouseLeft, bar[0].start, 0)
	mouse(m, tea.MouseRelease, bar[0].start, 0)
	assert.Equal(t, 0, m.current)
	assert.Equal(t, editor.ToolSelect, m.session().Tool(), "a board bar click does not pick a tool")

	mouse(m, tea.MouseLeft, m.boardBarItems()[1].start+1, 0)
	assert.Equal(t, 1, m.current)
	assert.Equal(t, editor.ToolRect, m.session().Tool())

	items := toolbarItems(m.width)
	mouse(m, tea.MouseLeft, items[editor.ToolDraw].start, m.toolbarRow())
	assert.Equal(t, 1, m.current)
	assert.Equal(t, editor.ToolDraw, m.session().Tool())
	assert.Zero(t, m.session().Store().Len())
}

func TestModel_DefaultToolAppliesToNewBoards(t *testing.T) {
	m := newTestModel(t, true)
	m.config.DefaultTool = editor.ToolNote.String()
	m.addBoard(m.newBoard("notes"))
	assert.Equal(t, editor.ToolNote, m.session().Tool())

	mouse(m, tea.MouseLeft, 10, m.canvasTop()+2)
	mouse(m, tea.MouseRelease, 10, m.canvasTop()+2)
	_, ok := only(t, m).(*scene.Note)
	assert.True(t, ok)
}
