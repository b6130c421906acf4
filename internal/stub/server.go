// Package stub provides a stand-in chat service with the same REST shape as the
// real one. It answers by echoing the message and keeps one thread id per user.
package stub

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ThreadChat/internal/api"
)

// Service holds per-user thread state
type Service struct {
	logger  *slog.Logger
	mu      sync.Mutex
	threads map[string]string
	turns   map[string]int
}

// NewService creates an empty stub service
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:  logger,
		threads: make(map[string]string),
		turns:   make(map[string]int),
	}
}

// Router builds the gin engine serving the API under /api
func (s *Service) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	g := r.Group("/api")
	g.POST("/chat", s.chat)
	g.DELETE("/thread/:userId", s.resetThread)
	g.GET("/health", s.health)
	return r
}

// Thread returns the current thread id of a user, if any
func (s *Service) Thread(userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.threads[userID]
	return id, ok
}

func (s *Service) chat(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Message == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	threadID, ok := s.threads[req.UserID]
	if !ok {
		threadID = "thread_" + uuid.NewString()
		s.threads[req.UserID] = threadID
	}
	s.turns[threadID]++
	turn := s.turns[threadID]
	s.mu.Unlock()

	s.logger.Info("chat turn", "user_id", req.UserID, "thread_id", threadID, "turn", turn)

	c.JSON(http.StatusOK, api.ChatResponse{
		Response: fmt.Sprintf("You said: %s", req.Message),
		ThreadID: threadID,
	})
}

func (s *Service) resetThread(c *gin.Context) {
	userID := c.Param("userId")

	s.mu.Lock()
	if threadID, ok := s.threads[userID]; ok {
		delete(s.turns, threadID)
		delete(s.threads, userID)
	}
	s.mu.Unlock()

	s.logger.Info("thread reset", "user_id", userID)
	c.JSON(http.StatusOK, api.ResetResponse{Message: "Thread reset successfully", UserID: userID})
}

func (s *Service) health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "UP", Service: "chatbot-service"})
}
