package chatbot

import (
	"context"

	"ThreadChat/internal/api"
	"ThreadChat/internal/session"
)

// View is the display surface driven by the controller.
// Implementations scroll to the newest entry on every append.
type View interface {
	AppendMessage(msg session.Message)
	ShowTyping()
	HideTyping()
	SetStatus(status session.Status)
	SetThread(threadID string) // Empty clears the thread label
	ClearMessages(notice string)
	SetSendEnabled(enabled bool)
	FocusInput()
}

// Prompter asks the user blocking questions
type Prompter interface {
	Confirm(question string) bool
	Alert(message string)
}

// ChatAPI is the subset of the service client the controller needs
type ChatAPI interface {
	Chat(ctx context.Context, userID, message string) (*api.ChatResponse, error)
	ResetThread(ctx context.Context, userID string) error
	Health(ctx context.Context) (*api.HealthResponse, error)
	BaseURL() string
}

// Recorder archives what the controller renders
type Recorder interface {
	RecordMessage(ctx context.Context, sess session.Session, msg session.Message) error
	RecordReset(ctx context.Context, userID, threadID string) error
}
