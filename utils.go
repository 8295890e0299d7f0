package main

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"drawboard/internal/editor"
	"drawboard/internal/scene"
	"drawboard/internal/viewport"
)

func (m *model) currentBoard() *board {
	if len(m.boards) == 0 {
		return nil
	}
	return m.boards[m.current]
}

func (m *model) session() *editor.Session {
	if b := m.currentBoard(); b != nil {
		return b.session
	}
	return nil
}

func (m *model) newBoard(name string) *board {
	log := m.log.With(zap.String("board", name))
	store := scene.NewStore(scene.WithLogger(log))
	view := viewport.New(m.config.zoomLimits())
	session := editor.NewSession(store, view,
		editor.WithScheduler(m.sched),
		editor.WithConfirmer(m.prompts),
		editor.WithLogger(log),
		editor.WithDragThreshold(m.config.DragThreshold),
		editor.WithMinShapeSize(m.config.MinShapeSize),
	)
	if t, ok := editor.ParseTool(m.config.DefaultTool); ok {
		session.SelectTool(t)
	}
	return &board{session: session, name: name}
}

func (m *model) addBoard(b *board) {
	m.boards = append(m.boards, b)
	m.current = len(m.boards) - 1
}

func (m *model) closeBoard() {
	if len(m.boards) == 0 {
		return
	}
	m.boards = append(m.boards[:m.current], m.boards[m.current+1:]...)
	if m.current >= len(m.boards) {
		m.current = len(m.boards) - 1
	}
	if m.current < 0 {
		m.current = 0
	}
}

func (m *model) cycleBoard(step int) {
	if len(m.boards) < 2 {
		return
	}
	m.session().PointerCancel()
	m.current = (m.current + step + len(m.boards)) % len(m.boards)
}

func (m *model) showBoardBar() bool {
	return m.mode != ModeStartup && len(m.boards) > 1
}

// canvasTop is the first screen row of the drawing surface.
func (m *model) canvasTop() int {
	top := toolbarHeight
	if m.showBoardBar() {
		top++
	}
	return top
}

func (m *model) canvasSize() (int, int) {
	w := m.width
	if w < 1 {
		w = 1
	}
	h := m.height - m.canvasTop() - statusHeight
	if h < 1 {
		h = 1
	}
	return w, h
}

// pointer converts a terminal cell to a screen-space pointer event on the
// drawing surface.
func (m *model) pointer(x, y int) editor.PointerEvent {
	return editor.PointerEvent{X: float64(x), Y: float64(y - m.canvasTop()), Primary: true}
}

const boardBarPrefix = "Open Boards: "

type boardBarItem struct {
	text  string
	start int
	end   int
}

func (m *model) boardBarItems() []boardBarItem {
	var items []boardBarItem
	x := len(boardBarPrefix)
	for i, b := range m.boards {
		if i > 0 {
			x += len(" | ")
		}
		name := b.name
		if name == "" {
			name = fmt.Sprintf("Board %d", i+1)
		}
		if i == m.current {
			name = "[" + name + "]"
		}
		n := len([]rune(name))
		items = append(items, boardBarItem{text: name, start: x, end: x + n})
		x += n
	}
	return items
}

func (m *model) renderBoardBar(width int) string {
	var bar strings.Builder
	bar.WriteString(boardBarPrefix)
	for i, item := range m.boardBarItems() {
		if i > 0 {
			bar.WriteString(" | ")
		}
		bar.WriteString(item.text)
	}
	return fitWidth(bar.String(), width)
}

// clickBoardBar switches to the board whose name is under column x.
func (m *model) clickBoardBar(x int) {
	for i, item := range m.boardBarItems() {
		if x >= item.start && x < item.end && i != m.current {
			m.session().PointerCancel()
			m.current = i
			return
		}
	}
}

// toolbarRow is the screen row of the tool bar, just above the canvas.
func (m *model) toolbarRow() int {
	return m.canvasTop() - toolbarHeight
}

func fitWidth(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div"))
}

var htmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", "\"",
	"&#39;", "'",
	"&nbsp;", " ",
)

func stripHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}
	return htmlEntities.Replace(result.String())
}

// cleanClipboardText reduces clipboard contents to plain text lines.
func cleanClipboardText(text string) string {
	if isHTML(text) {
		text = stripHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r >= 32 {
			result.WriteRune(r)
		}
	}
	return result.String()
}
