package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"drawboard/internal/export"
	"drawboard/internal/geom"
)

// exportVisualTXT writes the drawing surface exactly as it is on screen,
// without selection or in-flight gestures.
func (m *model) exportVisualTXT(filename string) error {
	s := m.session()
	if s == nil {
		return fmt.Errorf("no board open")
	}
	width, height := m.canvasSize()
	if m.width < 1 {
		width = 80
	}
	if m.height < 1 {
		height = 24
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range renderBoard(s, width, height, renderOptions{}) {
		if _, err := fmt.Fprintln(file, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// exportImage rasterizes the whole board, content bounds plus padding.
func (m *model) exportImage(filename string, format export.Format) error {
	s := m.session()
	if s == nil {
		return fmt.Errorf("no board open")
	}
	data, err := export.Rasterize(s.Store(), s.Viewport(), geom.Rect{}, export.Options{Format: format})
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return err
	}
	m.log.Info("board exported", zap.String("file", filename), zap.Stringer("format", format), zap.Int("bytes", len(data)))
	return nil
}

func exportExtension(op FileOperation) string {
	switch op {
	case FileOpSavePNG:
		return ".png"
	case FileOpSaveJPEG:
		return ".jpg"
	case FileOpSaveVisualTXT:
		return ".txt"
	default:
		return ""
	}
}
