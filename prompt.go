package main

import (
	"drawboard/internal/editor"
)

// promptQueue answers editor confirmations from the status line. With
// confirmations turned off every prompt is accepted straight away.
type promptQueue struct {
	enabled bool
	prompt  *editor.Prompt
	done    func(bool)
}

func newPromptQueue(enabled bool) *promptQueue {
	return &promptQueue{enabled: enabled}
}

func (q *promptQueue) Confirm(p editor.Prompt, done func(bool)) {
	if !q.enabled {
		done(true)
		return
	}
	// a newer prompt replaces one left unanswered
	q.answer(false)
	q.prompt = &p
	q.done = done
}

func (q *promptQueue) active() bool {
	return q.prompt != nil
}

func (q *promptQueue) answer(accepted bool) {
	done := q.done
	q.prompt = nil
	q.done = nil
	if done != nil {
		done(accepted)
	}
}

func (q *promptQueue) message() string {
	if q.prompt == nil {
		return ""
	}
	p := q.prompt
	msg := p.Title + ": " + p.Message + " (y=" + p.ConfirmLabel
	if p.ShowCancel {
		msg += ", n=Cancel"
	}
	return msg + ")"
}
