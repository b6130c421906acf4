package tui

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ThreadChat/internal/api"
	"ThreadChat/internal/chatbot"
	"ThreadChat/internal/session"
)

type fakeController struct {
	mu     sync.Mutex
	sends  [][2]string
	resets []string
}

func (f *fakeController) Send(ctx context.Context, message, userID string) (session.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, [2]string{message, userID})
	return session.Message{}, nil
}

func (f *fakeController) Reset(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, userID)
	return nil
}

func newTestModel(ctrl Controller, userID string) (Model, *Bridge) {
	bridge := NewBridge()
	m := New(context.Background(), ctrl, bridge, Options{
		UserID:   userID,
		Endpoint: "http://chat.test/api",
		Theme:    "notty",
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return m, bridge
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestWelcomeReplacedByFirstMessage(t *testing.T) {
	m, _ := newTestModel(&fakeController{}, "u1")
	assert.Contains(t, m.View(), "Welcome")

	m, _ = update(t, m, appendMsg{message: session.NewMessage(session.RoleUser, "hello", time.Now())})
	view := m.View()
	assert.NotContains(t, view, "Welcome")
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "You")
}

func TestTypingPlaceholder(t *testing.T) {
	m, _ := newTestModel(&fakeController{}, "u1")

	m, cmd := update(t, m, typingMsg{visible: true})
	assert.NotNil(t, cmd)
	assert.True(t, m.hasTyping())
	assert.Contains(t, m.View(), "typing...")

	m, _ = update(t, m, typingMsg{visible: true})
	count := 0
	for _, e := range m.entries {
		if e.kind == entryTyping {
			count++
		}
	}
	assert.Equal(t, 1, count)

	m, _ = update(t, m, typingMsg{visible: false})
	assert.False(t, m.hasTyping())
	assert.NotContains(t, m.View(), "typing...")
}

func TestStatusAndThreadInHeader(t *testing.T) {
	m, _ := newTestModel(&fakeController{}, "u1")
	assert.Contains(t, m.View(), "Ready")

	m, _ = update(t, m, statusMsg{status: session.Failed()})
	m, _ = update(t, m, threadMsg{threadID: "t1"})
	view := m.View()
	assert.Contains(t, view, "Error")
	assert.Contains(t, view, "Thread: t1")

	m, _ = update(t, m, threadMsg{threadID: ""})
	assert.NotContains(t, m.View(), "Thread:")
}

func TestEnterSubmitsMessage(t *testing.T) {
	ctrl := &fakeController{}
	m, _ := newTestModel(ctrl, "u1")

	m = typeText(t, m, "hello")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, m.message.Value())

	cmd()
	assert.Equal(t, [][2]string{{"hello", "u1"}}, ctrl.sends)
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	ctrl := &fakeController{}
	m, _ := newTestModel(ctrl, "u1")

	m = typeText(t, m, "   ")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "   ", m.message.Value())
	assert.Empty(t, ctrl.sends)
}

func TestEnterIgnoredWhileSendDisabled(t *testing.T) {
	ctrl := &fakeController{}
	m, _ := newTestModel(ctrl, "u1")

	m, _ = update(t, m, sendEnabledMsg{enabled: false})
	m = typeText(t, m, "hello")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestMissingUserIDFocusesUserField(t *testing.T) {
	ctrl := &fakeController{}
	m, _ := newTestModel(ctrl, "")
	assert.Equal(t, focusUserID, m.focus)

	m = typeText(t, m, "u9")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, focusMessage, m.focus)

	m = typeText(t, m, "hi")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, [][2]string{{"hi", "u9"}}, ctrl.sends)
}

func TestCtrlRRequestsReset(t *testing.T) {
	ctrl := &fakeController{}
	m, _ := newTestModel(ctrl, "u1")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []string{"u1"}, ctrl.resets)
}

func TestConfirmDialog(t *testing.T) {
	m, bridge := newTestModel(&fakeController{}, "u1")

	answer := make(chan bool, 1)
	go func() { answer <- bridge.Confirm("Reset?") }()

	msg := bridge.wait()()
	m, _ = update(t, m, msg)
	assert.Contains(t, m.View(), "Reset? (y/n)")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Nil(t, m.confirm)
	assert.True(t, <-answer)
}

func TestAlertDismissedByAnyKey(t *testing.T) {
	m, bridge := newTestModel(&fakeController{}, "u1")

	dismissed := make(chan struct{})
	go func() {
		bridge.Alert("Please enter a User ID")
		close(dismissed)
	}()

	m, _ = update(t, m, bridge.wait()())
	assert.Contains(t, m.View(), "Please enter a User ID")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, m.alert)
	<-dismissed
}

func TestStoppedBridgeUnblocksPrompts(t *testing.T) {
	m, bridge := newTestModel(&fakeController{}, "u1")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)

	assert.False(t, bridge.Confirm("Reset?"))
	bridge.Alert("ignored")
	assert.Nil(t, bridge.wait()())
}

// fakeService answers every chat with a canned reply
type fakeService struct{}

func (fakeService) Chat(ctx context.Context, userID, message string) (*api.ChatResponse, error) {
	return &api.ChatResponse{Response: "hi " + userID, ThreadID: "t1"}, nil
}
func (fakeService) ResetThread(ctx context.Context, userID string) error { return nil }
func (fakeService) Health(ctx context.Context) (*api.HealthResponse, error) {
	return &api.HealthResponse{Status: "UP"}, nil
}
func (fakeService) BaseURL() string { return "http://chat.test/api" }

func TestControllerDrivesModelThroughBridge(t *testing.T) {
	bridge := NewBridge()
	ctrl := chatbot.New(fakeService{}, bridge, bridge,
		chatbot.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	m := New(context.Background(), ctrl, bridge, Options{UserID: "u1", Theme: "notty"})

	m = typeText(t, m, "hello")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	done := make(chan struct{})
	go func() {
		cmd()
		close(done)
	}()

	for {
		msg := bridge.wait()()
		m, _ = update(t, m, msg)
		if _, ok := msg.(focusMsg); ok {
			break
		}
	}
	<-done

	view := m.View()
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "hi u1")
	assert.Contains(t, view, "Thread: t1")
	assert.Contains(t, view, "Ready")
	assert.False(t, m.hasTyping())
	assert.True(t, m.sendEnabled)
}
