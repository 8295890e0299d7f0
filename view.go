package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"drawboard/internal/editor"
	"drawboard/internal/scene"
)

var (
	toolStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeToolStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	confirmStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	welcomeStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3)
)

type toolbarItem struct {
	tool  editor.Tool
	text  string
	start int
	end   int
}

// toolbarItems lays the tools out left to right, one cell apart. Names
// are dropped when they do not fit in width.
func toolbarItems(width int) []toolbarItem {
	layout := func(named bool) []toolbarItem {
		var items []toolbarItem
		x := 0
		for t := editor.ToolSelect; t <= editor.ToolNote; t++ {
			text := "[" + editor.KeyFor(t) + "]"
			if named {
				text += t.String()
			}
			items = append(items, toolbarItem{tool: t, text: text, start: x, end: x + len(text)})
			x += len(text) + 1
		}
		return items
	}
	items := layout(true)
	if items[len(items)-1].end > width {
		items = layout(false)
	}
	return items
}

func (m *model) clickToolbar(x int) {
	s := m.session()
	if s == nil {
		return
	}
	for _, item := range toolbarItems(m.width) {
		if x >= item.start && x < item.end {
			s.SelectTool(item.tool)
			return
		}
	}
}

func (m *model) renderToolbar(width int) string {
	s := m.session()
	var bar strings.Builder
	used := 0
	for _, item := range toolbarItems(width) {
		if item.end > width {
			break
		}
		if item.start > used {
			bar.WriteString(strings.Repeat(" ", item.start-used))
		}
		if s != nil && item.tool == s.Tool() {
			bar.WriteString(activeToolStyle.Render(item.text))
		} else {
			bar.WriteString(toolStyle.Render(item.text))
		}
		used = item.end
	}
	return bar.String()
}

func (m *model) View() string {
	if m.help && m.mode != ModeStartup {
		return m.helpView()
	}
	width, height := m.canvasSize()
	if m.mode == ModeStartup {
		return m.startupView(width)
	}

	var result strings.Builder
	if m.showBoardBar() {
		result.WriteString(m.renderBoardBar(width))
		result.WriteString("\n")
	}
	result.WriteString(m.renderToolbar(width))
	result.WriteString("\n")

	if m.mode == ModeFileInput && m.fileOp == FileOpOpen {
		result.WriteString(m.fileListView(width, height))
	} else {
		lines := renderBoard(m.session(), width, height, renderOptions{preview: true, styled: true})
		result.WriteString(strings.Join(lines, "\n"))
	}

	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m *model) startupView(width int) string {
	welcome := welcomeStyle.Render(strings.Join([]string{
		"Welcome to drawboard!",
		"",
		"'n' New board",
		"'m' New mind map",
		"'o' Open saved board",
		"'q' Quit",
	}, "\n"))
	var errLine string
	if m.errorMessage != "" {
		errLine = "\n" + errorStyle.Render(m.errorMessage)
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(welcome) + errLine
}

func (m *model) fileListView(width, height int) string {
	var result strings.Builder
	result.WriteString("Select a saved board:\n")
	result.WriteString(strings.Repeat("─", width))
	result.WriteString("\n")

	rows := 2
	if len(m.fileList) == 0 {
		result.WriteString("(No saved boards)\n")
		rows++
	} else {
		maxFiles := height - 4
		if maxFiles < 1 {
			maxFiles = 1
		}
		startIdx := 0
		if m.selectedFileIndex >= maxFiles {
			startIdx = m.selectedFileIndex - maxFiles + 1
		}
		endIdx := startIdx + maxFiles
		if endIdx > len(m.fileList) {
			endIdx = len(m.fileList)
		}
		for i := startIdx; i < endIdx; i++ {
			if i == m.selectedFileIndex {
				result.WriteString("> " + m.fileList[i] + " <\n")
			} else {
				result.WriteString("  " + m.fileList[i] + "\n")
			}
			rows++
		}
	}
	result.WriteString(strings.Repeat("─", width))
	result.WriteString("\n")
	result.WriteString("Name: " + m.filename + "█")
	rows += 2
	for ; rows < height; rows++ {
		result.WriteString("\n")
	}
	return result.String()
}

func (m *model) statusLine() string {
	var status string
	mode := m.activeMode()
	switch mode {
	case ModeConfirm:
		return confirmStyle.Render(fmt.Sprintf("Mode: CONFIRM | %s", m.prompts.message()))
	case ModeEditing:
		status = fmt.Sprintf("Mode: EDIT | Text: %s | ←/→=move cursor, Enter=newline, Ctrl+S=done, Esc=cancel", m.editCursorDisplay())
	case ModeFileInput:
		hint := "Enter=confirm, Esc=cancel"
		if m.fileOp == FileOpOpen {
			hint = "↑/↓=navigate list, Type=enter name, Ctrl+D=delete, Enter=confirm, Esc=cancel"
		}
		status = fmt.Sprintf("Mode: FILE | %s: %s | %s", m.fileOp, m.filename, hint)
	default:
		s := m.session()
		zoom := s.Viewport().Zoom()
		status = fmt.Sprintf("Mode: %s | Tool: %s | Zoom: %d%% | Cursor: %s", mode, s.Tool(), int(zoom*100+0.5), s.Cursor())
		if _, ok := s.PendingBinding(); ok {
			status += " | Connector started (click the target)"
		}
		if id := s.Selected(); id != "" {
			if e, err := s.Store().Get(id); err == nil {
				status += fmt.Sprintf(" | Selected: %s", e.Kind())
				if n, ok := e.(*scene.Note); ok {
					status += " " + n.Color
					if n.Pinned {
						status += " (pinned)"
					}
				}
			}
		}
		if m.successMessage != "" {
			status += " | " + m.successMessage
		} else if m.errorMessage == "" {
			status += " | ? for help | q to quit"
		}
	}
	line := statusStyle.Render(status)
	if m.errorMessage != "" {
		line += statusStyle.Render(" | ") + errorStyle.Render("ERROR: "+m.errorMessage)
	}
	return line
}

// editCursorDisplay shows the label on one line with a block cursor over
// the character at the cursor position.
func (m *model) editCursorDisplay() string {
	runes := []rune(strings.ReplaceAll(m.editText, "\n", "⏎"))
	pos := m.editCursorPos
	if pos >= len(runes) {
		return string(runes) + "█"
	}
	runes[pos] = '█'
	return string(runes)
}

var helpLines = []string{
	"drawboard Help",
	"==============",
	"",
	"Tools (mouse on the board):",
	"---------------------------",
	"  v  select   click to select, drag to move",
	"  h  pan      drag to move the view",
	"  r c g d s x rectangle, circle, triangle, diamond, star, hexagon",
	"              drag a box of at least 5x5",
	"  t  text     click to place text and type",
	"  a  connector click the start, then the end; press a again to cancel",
	"  p  draw     freehand stroke",
	"  e  erase    click an element to remove it",
	"  m  mind     add a node; with a node selected, add a child",
	"  n  note     click to place a sticky note and type",
	"",
	"Sticky notes:",
	"-------------",
	"  i               Pin / unpin the selected note (pinned notes stay put)",
	"  k               Next note color (selected note and new notes)",
	"  f               Bring the selection to the front",
	"",
	"Editing:",
	"--------",
	"  Enter           Edit the label of the selection",
	"  Ctrl+S / Esc    Finish / cancel label editing",
	"  Delete          Delete the selection (connectors follow)",
	"  Ctrl+V          Paste clipboard text at the mouse",
	"  R               Reset the board to a new mind map",
	"  X               Clear every element",
	"  W               Clear freehand drawings only",
	"",
	"View:",
	"-----",
	"  Wheel, + / -    Zoom in / out",
	"  0               Reset zoom and pan",
	"  Arrows          Pan (Shift for faster)",
	"",
	"Boards and files:",
	"-----------------",
	"  Ctrl+S / S      Save / save as",
	"  Ctrl+O          Open a saved board",
	"  E / J / T       Export PNG / JPEG / text",
	"  Ctrl+N          New board",
	"  Ctrl+W          Close board",
	"  Tab / Shift+Tab Next / previous board",
	"",
	"  ?               Toggle help",
	"  q / Ctrl+C      Quit",
}

func (m *model) helpView() string {
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	startLine := m.helpScroll
	if maxStart := len(helpLines) - visibleHeight; startLine > maxStart {
		startLine = maxStart
	}
	if startLine < 0 {
		startLine = 0
	}
	endLine := startLine + visibleHeight
	if endLine > len(helpLines) {
		endLine = len(helpLines)
	}

	result := strings.Join(helpLines[startLine:endLine], "\n")
	result += "\n" + statusStyle.Render(fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines)))
	return result
}
