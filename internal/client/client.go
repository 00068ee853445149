// Package client provides an HTTP client for the DevMate server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/raphaelgruber/devmate-go/internal/models"
)

// Client talks to the DevMate chat API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses DEVMATE_SERVER_URL env var or defaults to localhost:8000.
// Timeout can be configured via DEVMATE_CLIENT_TIMEOUT env var (default 10m, chat
// turns can run several LLM calls).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("DEVMATE_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8487"
	}

	timeout := 10 * time.Minute
	if t := os.Getenv("DEVMATE_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ChatResult is the server's answer to one chat turn.
type ChatResult struct {
	Response        string  `json:"response"`
	SessionID       string  `json:"session_id"`
	Status          string  `json:"status"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Chat sends one user turn. sessionID may be empty to start a new session.
func (c *Client) Chat(ctx context.Context, userID, sessionID, query string) (*ChatResult, error) {
	payload := map[string]string{
		"user_id":    userID,
		"query":      query,
		"session_id": sessionID,
	}
	var result ChatResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/chat/agent", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListSessions returns the user's sessions, newest first.
func (c *Client) ListSessions(ctx context.Context, userID string) ([]models.Session, error) {
	var sessions []models.Session
	if err := c.do(ctx, http.MethodGet, "/api/v1/chat/sessions/"+userID, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Messages returns the full transcript of a session.
func (c *Client) Messages(ctx context.Context, sessionUID string) ([]models.Message, error) {
	var msgs []models.Message
	if err := c.do(ctx, http.MethodGet, "/api/v1/chat/sessions/"+sessionUID+"/messages", nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// RenameSession sets a session's title.
func (c *Client) RenameSession(ctx context.Context, sessionUID, title string) error {
	payload := map[string]string{"title": title}
	return c.do(ctx, http.MethodPut, "/api/v1/chat/sessions/"+sessionUID+"/rename", payload, nil)
}

// DeleteSession removes a session and its messages.
func (c *Client) DeleteSession(ctx context.Context, sessionUID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/chat/sessions/"+sessionUID, nil, nil)
}

// RecommendationResult is the server's follow-up suggestions for a session.
type RecommendationResult struct {
	Suggestions     []string `json:"suggestions"`
	SessionID       string   `json:"session_id"`
	Status          string   `json:"status"`
	DurationSeconds float64  `json:"duration_seconds"`
}

// Recommendations asks for follow-up message suggestions for a session.
// numMessages bounds how much recent history is analyzed; 0 uses the
// server default.
func (c *Client) Recommendations(ctx context.Context, sessionUID string, numMessages int) (*RecommendationResult, error) {
	payload := map[string]any{"session_id": sessionUID}
	if numMessages > 0 {
		payload["num_messages"] = numMessages
	}
	var result RecommendationResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/recommendations", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// User is a server-side account as exposed for user discovery.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Users lists accounts; a non-empty email narrows the list to that account.
func (c *Client) Users(ctx context.Context, email string) ([]User, error) {
	path := "/api/v1/users"
	if email != "" {
		path += "?email=" + url.QueryEscape(email)
	}
	var users []User
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Stats returns the server's runtime statistics.
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	var stats map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// do sends a JSON request and decodes the JSON response into result.
func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server error: %s - %s", resp.Status, string(raw))
	}

	if result != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
