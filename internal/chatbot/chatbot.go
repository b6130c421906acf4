package chatbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"ThreadChat/internal/api"
	"ThreadChat/internal/session"
)

const (
	// ResetNotice replaces the message list after a successful reset
	ResetNotice = "🔄 Thread reset\nStart a new conversation"

	resetQuestion = "Are you sure you want to reset the conversation?"
	missingUserID = "Please enter a User ID"
)

var (
	// ErrEmptyInput is returned by Send when the message or user id is blank
	ErrEmptyInput = errors.New("message and user id are required")
	// ErrEmptyUserID is returned by Reset when the user id is blank
	ErrEmptyUserID = errors.New("user id is required")
	// ErrResetDeclined is returned by Reset when the user does not confirm
	ErrResetDeclined = errors.New("reset declined")
)

// Controller is the chat session controller. It owns the session and status
// and drives a View; it never touches the terminal itself.
type Controller struct {
	client   ChatAPI
	view     View
	prompter Prompter
	recorder Recorder
	logger   *slog.Logger
	tracer   trace.Tracer
	sends    metric.Int64Counter
	now      func() time.Time

	mu      sync.Mutex
	session session.Session
	status  session.Status
}

// Option configures a Controller
type Option func(*Controller)

// WithRecorder archives every rendered message and reset
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithLogger sets the controller logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithTelemetry sets the tracer and meter used for controller spans and counters
func WithTelemetry(tracer trace.Tracer, meter metric.Meter) Option {
	return func(c *Controller) {
		c.tracer = tracer
		c.sends = newSendCounter(meter)
	}
}

// WithClock overrides the time source used to stamp messages
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a controller for one user session
func New(client ChatAPI, view View, prompter Prompter, opts ...Option) *Controller {
	c := &Controller{
		client:   client,
		view:     view,
		prompter: prompter,
		logger:   slog.Default(),
		tracer:   otel.Tracer("threadchat/chatbot"),
		sends:    newSendCounter(otel.Meter("threadchat/chatbot")),
		now:      time.Now,
		status:   session.Idle(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newSendCounter(meter metric.Meter) metric.Int64Counter {
	counter, err := meter.Int64Counter(
		"chat.messages.sent",
		metric.WithDescription("Chat messages sent, by outcome"),
	)
	if err != nil {
		return nil
	}
	return counter
}

// Init pushes the initial status to the view
func (c *Controller) Init() {
	c.view.SetStatus(c.Status())
}

// Session returns a copy of the current session
func (c *Controller) Session() session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Status returns the current status
func (c *Controller) Status() session.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Endpoint returns the service location
func (c *Controller) Endpoint() string {
	return c.client.BaseURL()
}

// Send echoes the message, asks the service for a reply and renders it.
// Failures are rendered as an assistant entry and also returned.
func (c *Controller) Send(ctx context.Context, message, userID string) (session.Message, error) {
	message = strings.TrimSpace(message)
	userID = strings.TrimSpace(userID)
	if message == "" || userID == "" {
		return session.Message{}, ErrEmptyInput
	}

	ctx, span := c.tracer.Start(ctx, "send_message")
	defer span.End()

	c.mu.Lock()
	c.session.UserID = userID
	c.mu.Unlock()

	c.render(ctx, session.RoleUser, message)

	c.view.ShowTyping()
	typing := true
	hideTyping := func() {
		if typing {
			typing = false
			c.view.HideTyping()
		}
	}
	defer func() {
		hideTyping()
		c.view.SetSendEnabled(true)
		c.view.FocusInput()
	}()

	c.view.SetSendEnabled(false)
	c.setStatus(session.Sending())

	resp, err := c.client.Chat(ctx, userID, message)
	hideTyping()
	if err != nil {
		span.RecordError(err)
		c.countSend(ctx, "error")
		c.logger.Error("failed to send message", "user_id", userID, "error", err)

		reply := c.render(ctx, session.RoleAssistant,
			fmt.Sprintf("Error: %v. Make sure the chatbot service is running on %s", err, c.client.BaseURL()))
		c.setStatus(session.Failed())
		return reply, err
	}

	if resp.ThreadID != "" {
		c.mu.Lock()
		c.session.ThreadID = resp.ThreadID
		c.mu.Unlock()
	}

	reply := c.render(ctx, session.RoleAssistant, resp.Response)
	if resp.ThreadID != "" {
		c.view.SetThread(resp.ThreadID)
	}
	c.setStatus(session.Idle())
	c.countSend(ctx, "ok")

	span.SetAttributes(attribute.String("chat.thread_id", resp.ThreadID))
	c.logger.Info("message exchanged", "user_id", userID, "thread_id", resp.ThreadID)
	return reply, nil
}

// Reset asks for confirmation, deletes the user's server-side thread and
// clears the view. On failure the view is left as it was.
func (c *Controller) Reset(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		c.prompter.Alert(missingUserID)
		return ErrEmptyUserID
	}

	if !c.prompter.Confirm(resetQuestion) {
		return ErrResetDeclined
	}

	ctx, span := c.tracer.Start(ctx, "reset_thread")
	defer span.End()

	c.setStatus(session.Resetting())

	if err := c.client.ResetThread(ctx, userID); err != nil {
		span.RecordError(err)
		c.logger.Error("failed to reset thread", "user_id", userID, "error", err)
		c.setStatus(session.Failed())
		c.prompter.Alert(fmt.Sprintf("Failed to reset thread: %v", err))
		return err
	}

	c.mu.Lock()
	previous := c.session.ThreadID
	c.session.UserID = userID
	c.session.ThreadID = ""
	c.mu.Unlock()

	c.view.ClearMessages(ResetNotice)
	c.view.SetThread("")
	c.setStatus(session.Idle())

	if c.recorder != nil {
		if err := c.recorder.RecordReset(ctx, userID, previous); err != nil {
			c.logger.Warn("failed to record reset", "user_id", userID, "error", err)
		}
	}

	c.logger.Info("thread reset", "user_id", userID, "previous_thread_id", previous)
	return nil
}

// Health reports the remote service status without touching the view
func (c *Controller) Health(ctx context.Context) (*api.HealthResponse, error) {
	health, err := c.client.Health(ctx)
	if err != nil {
		c.logger.Warn("health check failed", "endpoint", c.client.BaseURL(), "error", err)
		return nil, err
	}
	return health, nil
}

// render appends a message to the view and archives it
func (c *Controller) render(ctx context.Context, role, content string) session.Message {
	msg := session.NewMessage(role, content, c.now())
	c.view.AppendMessage(msg)

	if c.recorder != nil {
		if err := c.recorder.RecordMessage(ctx, c.Session(), msg); err != nil {
			c.logger.Warn("failed to record message", "role", role, "error", err)
		}
	}
	return msg
}

func (c *Controller) setStatus(status session.Status) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
	c.view.SetStatus(status)
}

func (c *Controller) countSend(ctx context.Context, outcome string) {
	if c.sends == nil {
		return
	}
	c.sends.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
