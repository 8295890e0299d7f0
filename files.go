package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"drawboard/internal/apperr"
	"drawboard/internal/editor"
	"drawboard/internal/export"
)

const storageTimeout = 5 * time.Second

func storageContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storageTimeout)
}

func (m *model) startFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.errorMessage = ""
	m.successMessage = ""
	m.filename = ""
	if b := m.currentBoard(); b != nil {
		m.filename = b.name
	}
	if op == FileOpOpen {
		m.scanBoards()
	}
}

// leaveFileInput goes back to the board, or to the start screen when no
// board is open yet.
func (m *model) leaveFileInput() {
	m.errorMessage = ""
	if len(m.boards) == 0 {
		m.mode = ModeStartup
		return
	}
	m.mode = ModeNormal
}

func (m *model) scanBoards() {
	m.fileList = nil
	m.selectedFileIndex = -1

	ctx, cancel := storageContext()
	defer cancel()
	names, err := m.store.List(ctx)
	if err != nil {
		m.log.Error("listing boards", zap.Error(err))
		m.errorMessage = "Could not list saved boards"
		return
	}
	m.fileList = names
	if len(names) > 0 {
		m.selectedFileIndex = 0
		m.filename = names[0]
	}
}

func (m *model) handleFileInputKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc":
		m.leaveFileInput()
	case "enter":
		m.submitFile()
	case "backspace":
		if r := []rune(m.filename); len(r) > 0 {
			m.filename = string(r[:len(r)-1])
		}
		m.selectedFileIndex = -1
	case "up", "down":
		if m.fileOp != FileOpOpen || len(m.fileList) == 0 {
			return
		}
		if msg.String() == "up" {
			m.selectedFileIndex--
		} else {
			m.selectedFileIndex++
		}
		if m.selectedFileIndex < 0 {
			m.selectedFileIndex = len(m.fileList) - 1
		}
		if m.selectedFileIndex >= len(m.fileList) {
			m.selectedFileIndex = 0
		}
		m.filename = m.fileList[m.selectedFileIndex]
	case "ctrl+d":
		if m.fileOp == FileOpOpen && m.selectedFileIndex >= 0 {
			m.deleteSavedBoard(m.fileList[m.selectedFileIndex])
		}
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.filename += string(msg.Runes)
			m.selectedFileIndex = -1
		case tea.KeySpace:
			m.filename += " "
			m.selectedFileIndex = -1
		}
	}
}

func (m *model) submitFile() {
	name := strings.TrimSpace(m.filename)
	if name == "" {
		m.errorMessage = "Please enter a filename"
		return
	}

	switch m.fileOp {
	case FileOpSave:
		cur := m.currentBoard()
		if cur != nil && name != cur.name && m.boardExists(name) {
			m.prompts.Confirm(editor.Prompt{
				Title:        "Overwrite",
				Message:      fmt.Sprintf("Board %s already exists. Overwrite?", name),
				ConfirmLabel: "Overwrite",
				ShowCancel:   true,
			}, func(ok bool) {
				if ok {
					m.saveBoard(name)
				}
			})
			return
		}
		m.saveBoard(name)
	case FileOpOpen:
		m.openBoard(name)
	case FileOpSavePNG, FileOpSaveJPEG, FileOpSaveVisualTXT:
		m.exportBoard(name)
	}
}

func (m *model) boardExists(name string) bool {
	ctx, cancel := storageContext()
	defer cancel()
	names, err := m.store.List(ctx)
	if err != nil {
		return false
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func (m *model) saveBoard(name string) {
	b := m.currentBoard()
	if b == nil {
		return
	}
	ctx, cancel := storageContext()
	defer cancel()
	if err := m.store.Save(ctx, name, b.session.Snapshot()); err != nil {
		m.log.Error("saving board", zap.String("name", name), zap.Error(err))
		m.mode = ModeFileInput
		m.fileOp = FileOpSave
		m.filename = name
		m.errorMessage = fmt.Sprintf("Error saving board: %s", err)
		return
	}
	b.name = name
	m.mode = ModeNormal
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("Saved %s", name)
}

func (m *model) openBoard(name string) {
	ctx, cancel := storageContext()
	defer cancel()
	snap, err := m.store.Load(ctx, name)
	switch {
	case apperr.IsNotFound(err):
		m.errorMessage = fmt.Sprintf("No board named %s", name)
		return
	case err != nil:
		m.log.Error("loading board", zap.String("name", name), zap.Error(err))
		m.errorMessage = fmt.Sprintf("Error opening board: %s", err)
		return
	}

	b := m.newBoard(name)
	if err := b.session.Restore(snap); err != nil {
		m.log.Error("restoring board", zap.String("name", name), zap.Error(err))
		m.errorMessage = fmt.Sprintf("Error opening board: %s", err)
		return
	}
	// an untouched scratch board is replaced rather than kept around
	if cur := m.currentBoard(); cur != nil && cur.name == "" && cur.session.Store().Len() == 0 {
		m.boards[m.current] = b
	} else {
		m.addBoard(b)
	}
	m.mode = ModeNormal
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("Opened %s", name)
}

func (m *model) deleteSavedBoard(name string) {
	m.prompts.Confirm(editor.Prompt{
		Title:        "Delete Board",
		Message:      fmt.Sprintf("Delete saved board %s?", name),
		ConfirmLabel: "Delete",
		ShowCancel:   true,
	}, func(ok bool) {
		if !ok {
			return
		}
		ctx, cancel := storageContext()
		defer cancel()
		if err := m.store.Delete(ctx, name); err != nil && !apperr.IsNotFound(err) {
			m.log.Error("deleting board", zap.String("name", name), zap.Error(err))
			m.errorMessage = fmt.Sprintf("Error deleting board: %s", err)
			return
		}
		m.scanBoards()
	})
}

func (m *model) exportBoard(name string) {
	ext := exportExtension(m.fileOp)
	if !strings.EqualFold(filepath.Ext(name), ext) {
		name += ext
	}
	path := m.config.GetSavePath(name)

	var err error
	switch m.fileOp {
	case FileOpSavePNG:
		err = m.exportImage(path, export.PNG)
	case FileOpSaveJPEG:
		err = m.exportImage(path, export.JPEG)
	default:
		err = m.exportVisualTXT(path)
	}
	if err != nil {
		m.log.Error("exporting board", zap.String("file", path), zap.Error(err))
		m.errorMessage = fmt.Sprintf("Error exporting %s: %s", strings.TrimPrefix(ext, "."), err)
		return
	}
	if absPath, err := filepath.Abs(path); err == nil {
		path = absPath
	}
	m.mode = ModeNormal
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("Exported to %s", path)
}
