package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is where the chat service listens in a local setup
const DefaultBaseURL = "http://localhost:8080/api"

const instrumentationName = "threadchat/api"

// Client talks to the chat service REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	duration   metric.Float64Histogram
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets an overall request timeout. Zero leaves it to the transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger used for request logging
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTelemetry sets the tracer and meter; the global providers are used otherwise
func WithTelemetry(tracer trace.Tracer, meter metric.Meter) Option {
	return func(c *Client) {
		c.tracer = tracer
		if h, err := meter.Float64Histogram(
			"http.client.request.duration",
			metric.WithDescription("HTTP request duration in milliseconds"),
		); err == nil {
			c.duration = h
		}
	}
}

// NewClient creates a client for the service rooted at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
		tracer:     otel.Tracer(instrumentationName),
	}
	WithTelemetry(c.tracer, otel.Meter(instrumentationName))(c)

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service location, used in user-facing error messages
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat sends one user message and returns the service's reply
func (c *Client) Chat(ctx context.Context, userID, message string) (*ChatResponse, error) {
	ctx, span := c.tracer.Start(ctx, "chat_api_call")
	defer span.End()

	jsonData, err := json.Marshal(ChatRequest{UserID: userID, Message: message})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.do(ctx, span, http.MethodPost, "/chat", jsonData)
	if err != nil {
		return nil, err
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		span.SetStatus(codes.Error, "malformed response")
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	span.SetAttributes(attribute.Bool("chat.thread_assigned", chatResp.ThreadID != ""))
	return &chatResp, nil
}

// ResetThread deletes the server-side thread of a user. The response body is ignored.
func (c *Client) ResetThread(ctx context.Context, userID string) error {
	ctx, span := c.tracer.Start(ctx, "reset_thread_api_call")
	defer span.End()

	_, err := c.do(ctx, span, http.MethodDelete, "/thread/"+url.PathEscape(userID), nil)
	return err
}

// Health queries the service health endpoint
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	ctx, span := c.tracer.Start(ctx, "health_api_call")
	defer span.End()

	body, err := c.do(ctx, span, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &health, nil
}

// do issues a request and returns the body of a successful response
func (c *Client) do(ctx context.Context, span trace.Span, method, path string, payload []byte) ([]byte, error) {
	start := time.Now()
	requestID := uuid.NewString()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.String("request.id", requestID),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		c.logger.Error("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	elapsed := time.Since(start)
	if c.duration != nil {
		c.duration.Record(ctx, float64(elapsed.Milliseconds()),
			metric.WithAttributes(
				attribute.String("http.request.method", method),
				attribute.Int("http.response.status_code", resp.StatusCode),
			))
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration_ms", elapsed.Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, resp.Status)
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
