// Package repl is the line-mode front end, used when no full-screen terminal
// is available or when asked for with --ui line.
package repl

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"ThreadChat/internal/session"
)

// LineReader reads one line of input. *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

var (
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render("You")
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Render("Bot")
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	alertStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Console prints what the controller renders, line by line
type Console struct {
	out    io.Writer
	reader LineReader

	mu     sync.Mutex
	typing bool
	status session.Status
	thread string
}

// NewConsole creates a console writing to out and asking questions through reader
func NewConsole(out io.Writer, reader LineReader) *Console {
	return &Console{out: out, reader: reader, status: session.Idle()}
}

func (c *Console) AppendMessage(msg session.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	label := userLabel
	if msg.Role == session.RoleAssistant {
		label = assistantLabel
	}
	fmt.Fprintf(c.out, "%s %s\n%s\n\n", label, dimStyle.Render(msg.Clock()), msg.Content)
}

func (c *Console) ShowTyping() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.typing = true
	fmt.Fprint(c.out, dimStyle.Render("Bot is typing..."))
}

func (c *Console) HideTyping() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.typing {
		c.typing = false
		fmt.Fprint(c.out, "\r\033[K")
	}
}

func (c *Console) SetStatus(status session.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

func (c *Console) SetThread(threadID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if threadID != "" && threadID != c.thread {
		fmt.Fprintln(c.out, dimStyle.Render("Thread: "+threadID))
	}
	c.thread = threadID
}

func (c *Console) ClearMessages(notice string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, dimStyle.Render(strings.Repeat("─", 40)))
	fmt.Fprintf(c.out, "%s\n\n", notice)
}

// SetSendEnabled is a no-op; the prompt is not shown while a send is in flight
func (c *Console) SetSendEnabled(bool) {}

// FocusInput is a no-op; the next prompt takes focus
func (c *Console) FocusInput() {}

// Confirm asks a y/N question
func (c *Console) Confirm(question string) bool {
	answer, err := c.reader.Prompt(question + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// Alert prints a notice
func (c *Console) Alert(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, alertStyle.Render("! "+message))
}

// PromptText builds the input prompt, showing user id and status
func (c *Console) PromptText(userID string) string {
	c.mu.Lock()
	status := c.status
	c.mu.Unlock()

	if userID == "" {
		userID = "?"
	}
	return fmt.Sprintf("%s [%s] › ", userID, status.Label)
}

// Printf writes free-form output such as command results
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}
