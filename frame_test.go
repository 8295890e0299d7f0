package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"drawboard/internal/editor"
)

func TestFrameScheduler_OneTickPerFrame(t *testing.T) {
	f := newFrameScheduler(time.Millisecond)
	assert.Nil(t, f.tick(), "nothing queued")

	var ran []int
	f.Schedule(func() { ran = append(ran, 1) })
	f.Schedule(func() {
		ran = append(ran, 2)
		f.Schedule(func() { ran = append(ran, 3) })
	})
	assert.NotNil(t, f.tick())
	assert.Nil(t, f.tick(), "a frame is already on its way")

	assert.Equal(t, 2, f.run())
	assert.Equal(t, []int{1, 2}, ran)

	// work queued while running waits for the next frame
	assert.NotNil(t, f.tick())
	assert.Equal(t, 1, f.run())
	assert.Equal(t, []int{1, 2, 3}, ran)
	assert.Nil(t, f.tick())
}

func TestPromptQueue(t *testing.T) {
	var answers []bool
	record := func(ok bool) { answers = append(answers, ok) }

	off := newPromptQueue(false)
	off.Confirm(editor.Prompt{Title: "Quit"}, record)
	assert.False(t, off.active())
	assert.Equal(t, []bool{true}, answers)

	on := newPromptQueue(true)
	on.Confirm(editor.Prompt{Title: "Delete Element", Message: "Delete this element?", ConfirmLabel: "Delete", ShowCancel: true}, record)
	assert.True(t, on.active())
	assert.Equal(t, "Delete Element: Delete this element? (y=Delete, n=Cancel)", on.message())

	// a second prompt turns down the first
	on.Confirm(editor.Prompt{Title: "Quit", ConfirmLabel: "Quit"}, record)
	assert.Equal(t, []bool{true, false}, answers)

	on.answer(true)
	assert.False(t, on.active())
	assert.Equal(t, []bool{true, false, true}, answers)
	assert.Empty(t, on.message())

	on.answer(true)
	assert.Len(t, answers, 3, "answering with no prompt does nothing")
}

func TestCleanClipboardText(t *testing.T) {
	assert.Equal(t, "a\nb    c\nd", cleanClipboardText("a\r\nb\tc\rd"))
	assert.Equal(t, "x & y", cleanClipboardText("<div>x &amp; y</div>"))
	assert.Equal(t, "bell", cleanClipboardText("be\x07ll"))
}
