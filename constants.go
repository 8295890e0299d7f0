package main

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeEditing
	ModeFileInput
	ModeConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeStartup:
		return "STARTUP"
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpSavePNG
	FileOpSaveJPEG
	FileOpSaveVisualTXT
)

func (op FileOperation) String() string {
	switch op {
	case FileOpSave:
		return "Save"
	case FileOpOpen:
		return "Open"
	case FileOpSavePNG:
		return "Export PNG"
	case FileOpSaveJPEG:
		return "Export JPEG"
	case FileOpSaveVisualTXT:
		return "Export TXT"
	default:
		return "File"
	}
}

const (
	toolbarHeight = 1
	statusHeight  = 1
	// pan step in cells for the arrow keys, doubled with shift
	panStep = 2
)
