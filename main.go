package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"drawboard/internal/editor"
	"drawboard/internal/geom"
	"drawboard/internal/mindtree"
	"drawboard/internal/scene"
	"drawboard/internal/storage"
)

func main() {
	path, err := configPath()
	if err != nil {
		log.Fatal(err)
	}
	config, err := loadConfig(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := newLogger(config)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	opts := config.storageOptions()
	opts.Logger = logger
	store, err := storage.Open(opts)
	if err != nil {
		logger.Error("opening storage", zap.Error(err))
		log.Fatal(err)
	}
	defer store.Close()

	logger.Info("starting", zap.String("config", path), zap.String("storage", config.Storage))
	p := tea.NewProgram(
		initialModel(config, logger, store),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", zap.Error(err))
		log.Fatal(err)
	}
}

func initialModel(config *Config, logger *zap.Logger, store storage.Store) *model {
	m := &model{
		config:            config,
		log:               logger,
		store:             store,
		sched:             newFrameScheduler(config.FrameInterval),
		prompts:           newPromptQueue(config.Confirmations),
		mode:              ModeStartup,
		selectedFileIndex: -1,
	}
	if !config.StartMenu {
		m.addBoard(m.newBoard(""))
		m.mode = ModeNormal
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

// activeMode is the mode shown to the user: an open prompt takes over
// whatever mode is underneath it.
func (m *model) activeMode() Mode {
	if m.prompts.active() {
		return ModeConfirm
	}
	return m.mode
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		m.sched.run()
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	m.syncEditing()
	if m.quitting {
		return m, tea.Quit
	}
	return m, m.sched.tick()
}

// fail logs err and shows the generic notification.
func (m *model) fail(op string, err error) {
	m.log.Warn(op, zap.Error(err))
	m.successMessage = ""
	m.errorMessage = "Something went wrong, please try again"
}

// syncEditing follows the session into and out of label editing.
func (m *model) syncEditing() {
	s := m.session()
	if s == nil {
		return
	}
	id := s.Editing()
	switch {
	case m.mode == ModeNormal && id != "":
		label, _ := m.label(id)
		m.mode = ModeEditing
		m.editText = label
		m.originalEditText = label
		m.editCursorPos = len([]rune(label))
	case m.mode == ModeEditing && id == "":
		m.mode = ModeNormal
	}
}

func (m *model) handleKey(msg tea.KeyMsg) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		return
	}
	if m.prompts.active() {
		switch key {
		case "y", "Y", "enter":
			m.prompts.answer(true)
		case "n", "N", "esc":
			m.prompts.answer(false)
		}
		return
	}
	if m.help {
		m.handleHelpKey(key)
		return
	}

	switch m.mode {
	case ModeStartup:
		m.handleStartupKey(key)
	case ModeFileInput:
		m.handleFileInputKey(msg)
	case ModeEditing:
		m.handleEditKey(msg)
	default:
		m.handleNormalKey(key)
	}
}

func (m *model) handleHelpKey(key string) {
	switch key {
	case "?", "esc", "q":
		m.help = false
	case "up", "k":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "down", "j":
		m.helpScroll++
	}
}

func (m *model) handleStartupKey(key string) {
	switch key {
	case "n":
		m.addBoard(m.newBoard(""))
		m.mode = ModeNormal
	case "m":
		b := m.newBoard("")
		if _, err := b.session.ImportTree(mindtree.Default(), m.mindMapOrigin()); err != nil {
			m.fail("seeding mind map", err)
		}
		m.addBoard(b)
		m.mode = ModeNormal
	case "o":
		m.startFileInput(FileOpOpen)
	case "q":
		m.quitting = true
	}
}

func (m *model) mindMapOrigin() geom.Point {
	return geom.Pt(2, 1)
}

func (m *model) handleNormalKey(key string) {
	s := m.session()
	m.errorMessage = ""
	m.successMessage = ""

	switch key {
	case "q":
		m.prompts.Confirm(editor.Prompt{
			Title:        "Quit",
			Message:      "Quit drawboard? Unsaved changes will be lost.",
			ConfirmLabel: "Quit",
			ShowCancel:   true,
		}, func(ok bool) {
			m.quitting = ok
		})
	case "?":
		m.help = true
		m.helpScroll = 0
	case "ctrl+s":
		if b := m.currentBoard(); b.name != "" {
			m.saveBoard(b.name)
		} else {
			m.startFileInput(FileOpSave)
		}
	case "S":
		m.startFileInput(FileOpSave)
	case "ctrl+o":
		m.startFileInput(FileOpOpen)
	case "E":
		m.startFileInput(FileOpSavePNG)
	case "J":
		m.startFileInput(FileOpSaveJPEG)
	case "T":
		m.startFileInput(FileOpSaveVisualTXT)
	case "ctrl+v":
		m.paste()
	case "ctrl+n":
		s.PointerCancel()
		m.addBoard(m.newBoard(""))
	case "ctrl+w":
		m.prompts.Confirm(editor.Prompt{
			Title:        "Close Board",
			Message:      "Close the current board? Unsaved changes will be lost.",
			ConfirmLabel: "Close",
			ShowCancel:   true,
		}, func(ok bool) {
			if !ok {
				return
			}
			m.closeBoard()
			if len(m.boards) == 0 {
				m.addBoard(m.newBoard(""))
			}
		})
	case "tab":
		m.cycleBoard(1)
	case "shift+tab":
		m.cycleBoard(-1)
	case "R":
		s.ResetScene()
	case "X":
		s.ClearAll()
	case "W":
		s.ClearDrawings()
	case "enter":
		if id := s.Selected(); id != "" {
			if err := s.StartEditing(id); err != nil {
				m.errorMessage = "Only shapes, text, notes and mind nodes have labels"
			}
		}
	default:
		if !m.handlePan(key) {
			s.Key(key)
		}
	}
}

func (m *model) label(id string) (string, bool) {
	e, err := m.session().Store().Get(id)
	if err != nil {
		return "", false
	}
	return scene.Label(e)
}

func (m *model) handleEditKey(msg tea.KeyMsg) {
	s := m.session()
	id := s.Editing()
	runes := []rune(m.editText)
	if m.editCursorPos > len(runes) {
		m.editCursorPos = len(runes)
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.editText = m.originalEditText
		m.applyEdit(id)
		s.FinishEditing()
		return
	case tea.KeyCtrlS:
		s.FinishEditing()
		return
	case tea.KeyEnter:
		runes = insertRunes(runes, m.editCursorPos, '\n')
		m.editCursorPos++
	case tea.KeyBackspace:
		if m.editCursorPos > 0 {
			runes = append(runes[:m.editCursorPos-1], runes[m.editCursorPos:]...)
			m.editCursorPos--
		}
	case tea.KeyDelete:
		if m.editCursorPos < len(runes) {
			runes = append(runes[:m.editCursorPos], runes[m.editCursorPos+1:]...)
		}
	case tea.KeyLeft:
		if m.editCursorPos > 0 {
			m.editCursorPos--
		}
		return
	case tea.KeyRight:
		if m.editCursorPos < len(runes) {
			m.editCursorPos++
		}
		return
	case tea.KeySpace:
		runes = insertRunes(runes, m.editCursorPos, ' ')
		m.editCursorPos++
	case tea.KeyRunes:
		runes = insertRunes(runes, m.editCursorPos, msg.Runes...)
		m.editCursorPos += len(msg.Runes)
	default:
		return
	}
	m.editText = string(runes)
	m.applyEdit(id)
}

func (m *model) applyEdit(id string) {
	if err := m.session().EditLabel(id, m.editText, nil); err != nil {
		m.fail("editing label", err)
	}
}

func insertRunes(runes []rune, at int, ins ...rune) []rune {
	out := make([]rune, 0, len(runes)+len(ins))
	out = append(out, runes[:at]...)
	out = append(out, ins...)
	return append(out, runes[at:]...)
}

// paste drops the clipboard text at the last mouse position.
func (m *model) paste() {
	text, err := readClipboardText()
	if err != nil {
		m.fail("reading clipboard", err)
		return
	}
	text = cleanClipboardText(text)
	ev := m.pointer(m.mouseX, m.mouseY)
	id, err := m.session().PasteText(text, geom.Pt(ev.X, ev.Y))
	switch {
	case err != nil:
		m.fail("pasting text", err)
	case id == "":
		m.errorMessage = "Clipboard is empty"
	default:
		m.successMessage = "Pasted text"
	}
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.prompts.active() || m.help {
		return
	}
	s := m.session()
	// clicking away from a label being edited finishes the edit
	if m.mode == ModeEditing && msg.Type == tea.MouseLeft && !m.pressed {
		s.FinishEditing()
		m.mode = ModeNormal
	}
	release := msg.Type == tea.MouseRelease && m.pressed
	if m.mode != ModeNormal && !release {
		return
	}
	m.mouseX, m.mouseY = msg.X, msg.Y
	ev := m.pointer(msg.X, msg.Y)

	var err error
	switch msg.Type {
	case tea.MouseWheelUp:
		err = s.Wheel(-1)
	case tea.MouseWheelDown:
		err = s.Wheel(1)
	case tea.MouseLeft:
		if m.pressed {
			err = s.PointerMove(ev)
			break
		}
		if msg.Y < m.canvasTop() {
			if msg.Y == m.toolbarRow() {
				m.clickToolbar(msg.X)
			} else {
				m.clickBoardBar(msg.X)
			}
			return
		}
		m.pressed = true
		m.errorMessage = ""
		err = s.PointerDown(ev)
	case tea.MouseMotion:
		err = s.PointerMove(ev)
	case tea.MouseRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		err = s.PointerUp(ev)
	}
	if err != nil {
		m.fail("pointer input", err)
	}
}
