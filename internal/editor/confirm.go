package editor

// Prompt describes a confirmation dialog.
type Prompt struct {
	Title        string
	Message      string
	ConfirmLabel string
	ShowCancel   bool
}

// Confirmer asks the user to accept a destructive operation. done is called
// exactly once, possibly after Confirm has returned.
type Confirmer interface {
	Confirm(p Prompt, done func(accepted bool))
}

type ConfirmFunc func(p Prompt, done func(accepted bool))

func (f ConfirmFunc) Confirm(p Prompt, done func(accepted bool)) {
	f(p, done)
}

// AutoConfirm answers every prompt immediately.
func AutoConfirm(answer bool) Confirmer {
	return ConfirmFunc(func(_ Prompt, done func(bool)) {
		done(answer)
	})
}
