package session

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ClockLayout is the display format for message timestamps
const ClockLayout = "15:04:05"

// Message represents a single rendered chat message
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the given time
func NewMessage(role, content string, at time.Time) Message {
	return Message{Role: role, Content: content, Timestamp: at}
}

// Clock returns the display-formatted time of the message
func (m Message) Clock() string {
	return m.Timestamp.Format(ClockLayout)
}

// Session represents the client side of a conversation with the chat service.
// ThreadID is assigned by the server and never interpreted here.
type Session struct {
	UserID   string `json:"user_id"`
	ThreadID string `json:"thread_id,omitempty"`
}

// HasThread reports whether the server has assigned a thread yet
func (s Session) HasThread() bool {
	return s.ThreadID != ""
}
