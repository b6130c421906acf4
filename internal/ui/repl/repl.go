package repl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/peterh/liner"

	"ThreadChat/internal/api"
	"ThreadChat/internal/session"
)

// Controller is the part of the chat controller the REPL drives
type Controller interface {
	Send(ctx context.Context, message, userID string) (session.Message, error)
	Reset(ctx context.Context, userID string) error
	Health(ctx context.Context) (*api.HealthResponse, error)
	Session() session.Session
}

// REPL reads lines and hands them to the controller
type REPL struct {
	ctrl    Controller
	console *Console
	reader  LineReader
	logger  *slog.Logger
	userID  string
}

// New creates a REPL for the given starting user id
func New(ctrl Controller, console *Console, reader LineReader, userID string, logger *slog.Logger) *REPL {
	if logger == nil {
		logger = slog.Default()
	}
	return &REPL{
		ctrl:    ctrl,
		console: console,
		reader:  reader,
		logger:  logger,
		userID:  strings.TrimSpace(userID),
	}
}

// UserID returns the current user id
func (r *REPL) UserID() string {
	return r.userID
}

// Run loops until /quit, Ctrl+C or end of input
func (r *REPL) Run(ctx context.Context) error {
	r.console.Printf("=== ThreadChat ===\nType /help for commands, /quit to exit\n\n")
	if r.userID == "" {
		r.console.Printf("Set your user id with /user <id>\n\n")
	}

	for {
		input, err := r.reader.Prompt(r.console.PromptText(r.userID))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				r.console.Printf("\nGoodbye!\n")
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.reader.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if r.handleCommand(ctx, input) {
				r.console.Printf("Goodbye!\n")
				return nil
			}
			continue
		}

		if r.userID == "" {
			r.console.Printf("Set your user id with /user <id>\n")
			continue
		}
		if _, err := r.ctrl.Send(ctx, input, r.userID); err != nil {
			r.logger.Debug("send failed", "error", err)
		}
	}
}

// handleCommand runs a slash command and reports whether to quit
func (r *REPL) handleCommand(ctx context.Context, cmd string) bool {
	parts := strings.Fields(cmd)

	switch parts[0] {
	case "/quit", "/exit":
		return true

	case "/reset":
		if err := r.ctrl.Reset(ctx, r.userID); err != nil {
			r.logger.Debug("reset did not complete", "error", err)
		}

	case "/user":
		if len(parts) < 2 {
			r.console.Printf("usage: /user <id>\n")
			return false
		}
		r.userID = parts[1]
		r.console.Printf("User id set to %s\n", r.userID)

	case "/thread":
		if id := r.ctrl.Session().ThreadID; id != "" {
			r.console.Printf("Thread: %s\n", id)
		} else {
			r.console.Printf("No thread yet\n")
		}

	case "/health":
		health, err := r.ctrl.Health(ctx)
		if err != nil {
			r.console.Printf("Service unreachable: %v\n", err)
			return false
		}
		r.console.Printf("%s: %s\n", health.Service, health.Status)

	case "/help":
		r.console.Printf("Available commands:\n")
		r.console.Printf("  /user <id>   - Set the user id sent with messages\n")
		r.console.Printf("  /reset       - Reset the conversation thread\n")
		r.console.Printf("  /thread      - Show the current thread id\n")
		r.console.Printf("  /health      - Check the chat service\n")
		r.console.Printf("  /quit, /exit - Exit\n")

	default:
		r.console.Printf("Unknown command %s, type /help\n", parts[0])
	}
	return false
}
