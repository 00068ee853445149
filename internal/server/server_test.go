package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/devmate-go/internal/metrics"
	"github.com/raphaelgruber/devmate-go/internal/session"
	"github.com/raphaelgruber/devmate-go/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// stubChat scripts the chat service behind the handler.
type stubChat struct {
	reply string
	uid   string
	err   error

	gotUserID  string
	gotSession string
	gotQuery   string

	deleted   []string
	deleteErr error
}

func (s *stubChat) Chat(ctx context.Context, userID, sessionUID, query string) (string, string, error) {
	s.gotUserID = userID
	s.gotSession = sessionUID
	s.gotQuery = query
	if s.err != nil {
		return "", "", s.err
	}
	return s.reply, s.uid, nil
}

func (s *stubChat) Delete(ctx context.Context, sessionUID string) error {
	s.deleted = append(s.deleted, sessionUID)
	return s.deleteErr
}

// stubRecommender scripts the recommendation service.
type stubRecommender struct {
	suggestions []string
	err         error

	gotSession string
	gotWindow  int
}

func (s *stubRecommender) Suggest(ctx context.Context, sessionUID string, window int) ([]string, error) {
	s.gotSession = sessionUID
	s.gotWindow = window
	if s.err != nil {
		return nil, s.err
	}
	return s.suggestions, nil
}

func newTestServer(chat chatService, rec recommender, collector *metrics.Collector) *Server {
	return New(chat, nil, rec, collector, "0", testLogger())
}

// testServer builds a server whose handlers are exercised only up to input
// validation; collaborators that would need a database stay nil.
func testServer(collector *metrics.Collector) *Server {
	return newTestServer(nil, nil, collector)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHandleChat_Validation(t *testing.T) {
	srv := testServer(nil)

	t.Run("missing fields", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/chat/agent", `{"query": ""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/chat/agent", `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid session_id", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/chat/agent",
			`{"user_id": "user-1", "query": "hi", "session_id": "not-a-uuid"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleChat_ApologeticReplyIsStillOK(t *testing.T) {
	// A rejected or failed SQL query comes back from the manager as a
	// normal answer; the HTTP status stays 200.
	uid := uuid.NewString()
	chat := &stubChat{
		reply: "Sorry, I could not generate a SQL query for that question. Please check your query or the database.",
		uid:   uid,
	}
	srv := newTestServer(chat, nil, metrics.NewCollector())

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/chat/agent",
		fmt.Sprintf(`{"user_id": "user-1", "query": "list tickets by priority", "session_id": %q}`, uid))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, chat.reply, resp.Response)
	assert.Equal(t, uid, resp.SessionID)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "user-1", chat.gotUserID)
	assert.Equal(t, "list tickets by priority", chat.gotQuery)
}

func TestHandleChat_ErrorMapping(t *testing.T) {
	uid := uuid.NewString()

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unknown session", fmt.Errorf("load session: %w", store.ErrNotFound), http.StatusNotFound},
		{"foreign session", fmt.Errorf("session %s: %w", uid, session.ErrNotOwner), http.StatusForbidden},
		{"engine failure", errors.New("node planner: model offline"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubChat{err: tt.err}, nil, nil)
			rec := doRequest(t, srv, http.MethodPost, "/api/v1/chat/agent",
				fmt.Sprintf(`{"user_id": "user-1", "query": "hi", "session_id": %q}`, uid))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestDeleteSession_GoesThroughManager(t *testing.T) {
	uid := uuid.NewString()

	t.Run("deletes and releases", func(t *testing.T) {
		chat := &stubChat{}
		srv := newTestServer(chat, nil, nil)

		rec := doRequest(t, srv, http.MethodDelete, "/api/v1/chat/sessions/"+uid, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []string{uid}, chat.deleted)
	})

	t.Run("unknown session", func(t *testing.T) {
		chat := &stubChat{deleteErr: fmt.Errorf("delete session: %w", store.ErrNotFound)}
		srv := newTestServer(chat, nil, nil)

		rec := doRequest(t, srv, http.MethodDelete, "/api/v1/chat/sessions/"+uid, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleRecommendations(t *testing.T) {
	uid := uuid.NewString()

	t.Run("returns suggestions", func(t *testing.T) {
		recSvc := &stubRecommender{suggestions: []string{"one", "two"}}
		srv := newTestServer(nil, recSvc, metrics.NewCollector())

		w := doRequest(t, srv, http.MethodPost, "/api/v1/recommendations",
			fmt.Sprintf(`{"session_id": %q, "num_messages": 5}`, uid))
		require.Equal(t, http.StatusOK, w.Code)

		var resp recommendationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"one", "two"}, resp.Suggestions)
		assert.Equal(t, uid, resp.SessionID)
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, uid, recSvc.gotSession)
		assert.Equal(t, 5, recSvc.gotWindow)
	})

	t.Run("validation", func(t *testing.T) {
		srv := newTestServer(nil, &stubRecommender{}, nil)

		tests := []struct {
			name string
			body string
		}{
			{"missing session_id", `{"num_messages": 5}`},
			{"invalid session_id", `{"session_id": "not-a-uuid"}`},
			{"window too large", fmt.Sprintf(`{"session_id": %q, "num_messages": 99}`, uid)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doRequest(t, srv, http.MethodPost, "/api/v1/recommendations", tt.body)
				assert.Equal(t, http.StatusBadRequest, w.Code)
			})
		}
	})

	t.Run("service failure", func(t *testing.T) {
		recSvc := &stubRecommender{err: errors.New("connection refused")}
		srv := newTestServer(nil, recSvc, nil)

		w := doRequest(t, srv, http.MethodPost, "/api/v1/recommendations",
			fmt.Sprintf(`{"session_id": %q}`, uid))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestSessionRoutes_RejectInvalidUID(t *testing.T) {
	srv := testServer(nil)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/chat/sessions/not-a-uuid/messages", ""},
		{http.MethodPut, "/api/v1/chat/sessions/not-a-uuid/rename", `{"title": "x"}`},
		{http.MethodDelete, "/api/v1/chat/sessions/not-a-uuid", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doRequest(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleStats(t *testing.T) {
	collector := metrics.NewCollector()
	collector.RecordTiming(metrics.OpTurn, 120*time.Millisecond)
	srv := testServer(collector)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap metrics.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Contains(t, snap.Operations, metrics.OpTurn)
	assert.Equal(t, int64(1), snap.Operations[metrics.OpTurn].Count)
	assert.Equal(t, int64(120), snap.Operations[metrics.OpTurn].TotalTimeMs)
}

func TestLoggingMiddleware_SetsRequestID(t *testing.T) {
	srv := testServer(metrics.NewCollector())

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/stats", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))

	long := strings.Repeat("a", 50)
	got := truncate(long, 10)
	assert.Len(t, got, 10)
	assert.True(t, strings.HasSuffix(got, "..."))

	assert.Equal(t, "ab", truncate("abcdef", 2))
}
