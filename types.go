package main

import (
	"go.uber.org/zap"

	"drawboard/internal/editor"
	"drawboard/internal/storage"
)

// board is one open drawing. name is the storage name, empty until the
// board is first saved or opened.
type board struct {
	session *editor.Session
	name    string
}

type model struct {
	width  int
	height int

	config  *Config
	log     *zap.Logger
	store   storage.Store
	sched   *frameScheduler
	prompts *promptQueue

	boards  []*board
	current int
	mode    Mode

	help       bool
	helpScroll int

	// last mouse position in screen cells, and whether the primary button
	// is down
	mouseX  int
	mouseY  int
	pressed bool

	editText         string
	editCursorPos    int
	originalEditText string

	filename          string
	fileList          []string
	selectedFileIndex int
	fileOp            FileOperation

	errorMessage   string
	successMessage string
	quitting       bool
}
