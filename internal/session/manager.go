// Package session owns the session-to-state binding: it loads history,
// serializes turns per session, runs the orchestration engine, and persists
// the resulting message pair.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/raphaelgruber/devmate-go/internal/agent"
	"github.com/raphaelgruber/devmate-go/internal/models"
)

// ErrNotOwner is returned when a caller addresses a session owned by
// someone else.
var ErrNotOwner = errors.New("session does not belong to user")

// repository is the slice of the store the manager needs.
type repository interface {
	CreateSession(ctx context.Context, userID, title string) (*models.Session, error)
	GetSession(ctx context.Context, uid string) (*models.Session, error)
	DeleteSession(ctx context.Context, uid string) error
	History(ctx context.Context, sessionUID string) ([]models.Message, error)
	CreateMessage(ctx context.Context, sessionUID, userID string, role models.Role, content string) error
}

// engine runs one turn of the orchestration graph.
type engine interface {
	Run(ctx context.Context, st *agent.State) (string, error)
}

// Manager coordinates turns. Exactly one turn mutates a given session at a
// time; independent sessions run concurrently.
type Manager struct {
	store  repository
	engine engine
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a session manager.
func NewManager(store repository, eng engine, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		engine: eng,
		logger: logger,
		locks:  map[string]*sync.Mutex{},
	}
}

// sessionLock returns the mutex serializing turns for one session UID.
func (m *Manager) sessionLock(uid string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[uid]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[uid] = lock
	}
	return lock
}

// Chat runs one turn. When sessionUID is empty a session is created lazily.
// The user message is persisted before the graph runs; the assistant message
// is persisted only after a successful run, so a failed turn never leaves a
// dangling assistant row and ordering between the pair is preserved.
func (m *Manager) Chat(ctx context.Context, userID, sessionUID, query string) (string, string, error) {
	if sessionUID == "" {
		title := "Session - " + time.Now().Format("2006-01-02 15:04:05")
		sess, err := m.store.CreateSession(ctx, userID, title)
		if err != nil {
			return "", "", fmt.Errorf("create session: %w", err)
		}
		sessionUID = sess.UID
		m.logger.Info("created session", "session_id", sessionUID, "user_id", userID)
	} else {
		sess, err := m.store.GetSession(ctx, sessionUID)
		if err != nil {
			return "", "", fmt.Errorf("load session: %w", err)
		}
		if sess.UserID != userID {
			return "", "", fmt.Errorf("session %s: %w", sessionUID, ErrNotOwner)
		}
	}

	lock := m.sessionLock(sessionUID)
	lock.Lock()
	defer lock.Unlock()

	history, err := m.store.History(ctx, sessionUID)
	if err != nil {
		return "", "", fmt.Errorf("load history: %w", err)
	}

	if err := m.store.CreateMessage(ctx, sessionUID, userID, models.RoleUser, query); err != nil {
		return "", "", fmt.Errorf("persist user message: %w", err)
	}

	st := agent.NewState(userID, sessionUID, history, query)
	reply, err := m.engine.Run(ctx, st)
	if err != nil {
		return "", "", fmt.Errorf("run agent: %w", err)
	}

	if err := m.store.CreateMessage(ctx, sessionUID, userID, models.RoleAssistant, reply); err != nil {
		return "", "", fmt.Errorf("persist assistant message: %w", err)
	}

	return reply, sessionUID, nil
}

// Delete removes a session and drops its serialization lock. The lock is
// held for the delete, so an in-flight turn on the session finishes first.
func (m *Manager) Delete(ctx context.Context, sessionUID string) error {
	lock := m.sessionLock(sessionUID)
	lock.Lock()
	defer lock.Unlock()

	if err := m.store.DeleteSession(ctx, sessionUID); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.locks, sessionUID)
	m.mu.Unlock()
	return nil
}
