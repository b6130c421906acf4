package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessageClock(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 5, 7, 0, time.UTC)
	msg := NewMessage(RoleUser, "hello", at)

	assert.Equal(t, "09:05:07", msg.Clock())
	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "hello", msg.Content)
}

func TestSessionHasThread(t *testing.T) {
	s := Session{UserID: "u1"}
	assert.False(t, s.HasThread())

	s.ThreadID = "t1"
	assert.True(t, s.HasThread())
}

func TestStatusConstructors(t *testing.T) {
	tests := []struct {
		status Status
		phase  Phase
		label  string
	}{
		{Idle(), PhaseIdle, "Ready"},
		{Sending(), PhaseSending, "Sending..."},
		{Resetting(), PhaseSending, "Resetting..."},
		{Failed(), PhaseError, "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.phase, tt.status.Phase)
			assert.Equal(t, tt.label, tt.status.Label)
		})
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "sending", PhaseSending.String())
	assert.Equal(t, "error", PhaseError.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
