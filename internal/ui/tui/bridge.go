package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"ThreadChat/internal/session"
)

// Messages posted by the bridge; the model applies them in its update loop.
type (
	appendMsg      struct{ message session.Message }
	typingMsg      struct{ visible bool }
	statusMsg      struct{ status session.Status }
	threadMsg      struct{ threadID string }
	clearMsg       struct{ notice string }
	sendEnabledMsg struct{ enabled bool }
	focusMsg       struct{}

	confirmMsg struct {
		question string
		reply    chan bool
	}

	alertMsg struct {
		text string
		done chan struct{}
	}
)

// Bridge implements the controller's View and Prompter by posting events to
// the Bubble Tea program, so every view mutation happens on the update loop.
// Confirm and Alert block the calling goroutine until the user answers.
type Bridge struct {
	events chan tea.Msg
	done   chan struct{}
	once   sync.Once
}

// NewBridge creates a bridge with a small event buffer
func NewBridge() *Bridge {
	return &Bridge{
		events: make(chan tea.Msg, 64),
		done:   make(chan struct{}),
	}
}

// Stop unblocks pending senders once the program has exited
func (b *Bridge) Stop() {
	b.once.Do(func() { close(b.done) })
}

func (b *Bridge) stopped() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

func (b *Bridge) post(msg tea.Msg) bool {
	if b.stopped() {
		return false
	}
	select {
	case b.events <- msg:
		return true
	case <-b.done:
		return false
	}
}

// wait returns a command delivering the next bridge event
func (b *Bridge) wait() tea.Cmd {
	return func() tea.Msg {
		if b.stopped() {
			return nil
		}
		select {
		case msg := <-b.events:
			return msg
		case <-b.done:
			return nil
		}
	}
}

func (b *Bridge) AppendMessage(msg session.Message) { b.post(appendMsg{message: msg}) }
func (b *Bridge) ShowTyping()                       { b.post(typingMsg{visible: true}) }
func (b *Bridge) HideTyping()                       { b.post(typingMsg{visible: false}) }
func (b *Bridge) SetStatus(status session.Status)   { b.post(statusMsg{status: status}) }
func (b *Bridge) SetThread(threadID string)         { b.post(threadMsg{threadID: threadID}) }
func (b *Bridge) ClearMessages(notice string)       { b.post(clearMsg{notice: notice}) }
func (b *Bridge) SetSendEnabled(enabled bool)       { b.post(sendEnabledMsg{enabled: enabled}) }
func (b *Bridge) FocusInput()                       { b.post(focusMsg{}) }

// Confirm shows a y/n question and waits for the answer
func (b *Bridge) Confirm(question string) bool {
	reply := make(chan bool, 1)
	if !b.post(confirmMsg{question: question, reply: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-b.done:
		return false
	}
}

// Alert shows a notice and waits until it is dismissed
func (b *Bridge) Alert(text string) {
	done := make(chan struct{})
	if !b.post(alertMsg{text: text, done: done}) {
		return
	}
	select {
	case <-done:
	case <-b.done:
	}
}
