// Package tui is the full-screen Bubble Tea front end of the chat client.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"ThreadChat/internal/session"
)

const welcomeNotice = "👋 Welcome! Enter your user id, then type a message and press Enter."

// Controller is what the model asks to act on user input
type Controller interface {
	Send(ctx context.Context, message, userID string) (session.Message, error)
	Reset(ctx context.Context, userID string) error
}

// Options configures the model
type Options struct {
	UserID   string
	Endpoint string
	Theme    string // glamour standard style name
	Logger   *slog.Logger
}

type entryKind int

const (
	entryMessage entryKind = iota
	entryNotice
	entryTyping
)

type entry struct {
	kind    entryKind
	message session.Message
	text    string
}

type focusField int

const (
	focusMessage focusField = iota
	focusUserID
)

// Model is the Bubble Tea model of the chat screen
type Model struct {
	ctx    context.Context
	ctrl   Controller
	bridge *Bridge
	opts   Options
	logger *slog.Logger

	entries     []entry
	status      session.Status
	threadID    string
	sendEnabled bool
	focus       focusField
	confirm     *confirmMsg
	alert       *alertMsg

	viewport viewport.Model
	message  textinput.Model
	userID   textinput.Model
	spinner  spinner.Model
	markdown *glamour.TermRenderer

	width, height int
}

// New creates the chat screen model
func New(ctx context.Context, ctrl Controller, bridge *Bridge, opts Options) Model {
	if opts.Theme == "" {
		opts.Theme = "dark"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	msgInput := textinput.New()
	msgInput.Placeholder = "Type your message..."
	msgInput.Prompt = "› "
	msgInput.CharLimit = 4000
	msgInput.Focus()

	userInput := textinput.New()
	userInput.Placeholder = "user id"
	userInput.Prompt = "User: "
	userInput.CharLimit = 128
	userInput.SetValue(opts.UserID)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		ctrl:        ctrl,
		bridge:      bridge,
		opts:        opts,
		logger:      logger,
		entries:     []entry{{kind: entryNotice, text: welcomeNotice}},
		status:      session.Idle(),
		sendEnabled: true,
		viewport:    viewport.New(80, 20),
		message:     msgInput,
		userID:      userInput,
		spinner:     sp,
		width:       80,
		height:      26,
	}
	if opts.UserID == "" {
		m.setFocus(focusUserID)
	}
	m.markdown = m.newRenderer(m.width)
	m.refresh()
	return m
}

// Init starts listening to the bridge
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bridge.wait(), textinput.Blink)
}

// Update handles terminal input and bridge events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.hasTyping() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case appendMsg:
		m.dropWelcome()
		m.entries = append(m.entries, entry{kind: entryMessage, message: msg.message})
		m.refresh()
		return m, m.bridge.wait()

	case typingMsg:
		var cmd tea.Cmd
		if msg.visible {
			m.removeTyping()
			m.entries = append(m.entries, entry{kind: entryTyping})
			cmd = m.spinner.Tick
		} else {
			m.removeTyping()
		}
		m.refresh()
		return m, tea.Batch(cmd, m.bridge.wait())

	case statusMsg:
		m.status = msg.status
		return m, m.bridge.wait()

	case threadMsg:
		m.threadID = msg.threadID
		return m, m.bridge.wait()

	case clearMsg:
		m.entries = []entry{{kind: entryNotice, text: msg.notice}}
		m.refresh()
		return m, m.bridge.wait()

	case sendEnabledMsg:
		m.sendEnabled = msg.enabled
		return m, m.bridge.wait()

	case focusMsg:
		m.setFocus(focusMessage)
		return m, m.bridge.wait()

	case confirmMsg:
		m.confirm = &msg
		return m, m.bridge.wait()

	case alertMsg:
		m.alert = &msg
		return m, m.bridge.wait()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.bridge.Stop()
		return m, tea.Quit
	}

	if m.alert != nil {
		close(m.alert.done)
		m.alert = nil
		return m, nil
	}

	if m.confirm != nil {
		switch strings.ToLower(msg.String()) {
		case "y":
			m.confirm.reply <- true
			m.confirm = nil
		case "n", "esc", "enter":
			m.confirm.reply <- false
			m.confirm = nil
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.bridge.Stop()
		return m, tea.Quit

	case tea.KeyTab, tea.KeyShiftTab:
		if m.focus == focusMessage {
			m.setFocus(focusUserID)
		} else {
			m.setFocus(focusMessage)
		}
		return m, nil

	case tea.KeyCtrlR:
		userID := m.userID.Value()
		return m, func() tea.Msg {
			if err := m.ctrl.Reset(m.ctx, userID); err != nil {
				m.logger.Debug("reset did not complete", "error", err)
			}
			return nil
		}

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil

	case tea.KeyEnter:
		if m.focus == focusUserID {
			m.setFocus(focusMessage)
			return m, nil
		}
		return m.submit()
	}

	var cmd tea.Cmd
	if m.focus == focusMessage {
		m.message, cmd = m.message.Update(msg)
	} else {
		m.userID, cmd = m.userID.Update(msg)
	}
	return m, cmd
}

// submit hands the entered message to the controller. Blank input is left in place.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.sendEnabled {
		return m, nil
	}
	message := strings.TrimSpace(m.message.Value())
	userID := strings.TrimSpace(m.userID.Value())
	if message == "" || userID == "" {
		return m, nil
	}

	m.message.Reset()
	return m, func() tea.Msg {
		if _, err := m.ctrl.Send(m.ctx, message, userID); err != nil {
			m.logger.Debug("send failed", "error", err)
		}
		return nil
	}
}

// View renders the screen
func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render("ThreadChat") + "  " + renderStatus(m.status)
	if m.threadID != "" {
		header += "  " + threadStyle.Render("Thread: "+m.threadID)
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(threadStyle.Render(m.opts.Endpoint))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	switch {
	case m.alert != nil:
		b.WriteString(dialogStyle.Render(m.alert.text + "\n" + helpStyle.Render("press any key")))
	case m.confirm != nil:
		b.WriteString(dialogStyle.Render(m.confirm.question + " (y/n)"))
	default:
		b.WriteString(m.userID.View())
		b.WriteString("\n")
		b.WriteString(m.message.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter send • tab switch field • ctrl+r reset thread • pgup/pgdn scroll • esc quit"))
	}
	return b.String()
}

func (m *Model) setFocus(f focusField) {
	m.focus = f
	if f == focusMessage {
		m.userID.Blur()
		m.message.Focus()
	} else {
		m.message.Blur()
		m.userID.Focus()
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	m.viewport.Width = width
	m.viewport.Height = max(height-9, 3)
	m.message.Width = max(width-4, 10)
	m.userID.Width = max(width-8, 10)
	m.markdown = m.newRenderer(width)
	m.refresh()
}

func (m Model) newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.opts.Theme),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", "theme", m.opts.Theme, "error", err)
		return nil
	}
	return r
}

func (m *Model) hasTyping() bool {
	for _, e := range m.entries {
		if e.kind == entryTyping {
			return true
		}
	}
	return false
}

// removeTyping drops the typing placeholder; there is at most one
func (m *Model) removeTyping() {
	for i, e := range m.entries {
		if e.kind == entryTyping {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return
		}
	}
}

func (m *Model) dropWelcome() {
	if len(m.entries) > 0 && m.entries[0].kind == entryNotice && m.entries[0].text == welcomeNotice {
		m.entries = m.entries[1:]
	}
}

// refresh re-renders the message list and scrolls to the newest entry
func (m *Model) refresh() {
	parts := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		parts = append(parts, m.renderEntry(e))
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
	m.viewport.GotoBottom()
}

func (m *Model) renderEntry(e entry) string {
	switch e.kind {
	case entryNotice:
		return noticeStyle.Render(e.text)
	case entryTyping:
		return assistantStyle.Render("Assistant") + "\n" + m.spinner.View() + " typing..."
	}

	msg := e.message
	stamp := timeStyle.Render(msg.Clock())
	if msg.Role == session.RoleUser {
		return fmt.Sprintf("%s %s\n%s", userStyle.Render("You"), stamp, msg.Content)
	}
	return fmt.Sprintf("%s %s\n%s", assistantStyle.Render("Assistant"), stamp, m.renderMarkdown(msg.Content))
}

func (m *Model) renderMarkdown(content string) string {
	if m.markdown == nil {
		return content
	}
	out, err := m.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

// Run starts the full-screen program and blocks until the user quits
func Run(ctx context.Context, ctrl Controller, bridge *Bridge, opts Options) error {
	p := tea.NewProgram(New(ctx, ctrl, bridge, opts), tea.WithAltScreen())
	_, err := p.Run()
	bridge.Stop()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

var _ tea.Model = Model{}
