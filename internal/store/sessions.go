package store

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/devmate-go/internal/models"
)

// CreateSession inserts a new chat session and returns it with the generated ID.
func (s *Store) CreateSession(ctx context.Context, userID, title string) (*models.Session, error) {
	sess := &models.Session{UserID: userID, Title: title}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO chat_sessions (user_id, title) VALUES ($1, $2)
		 RETURNING id, created_at`,
		userID, title,
	).Scan(&sess.UID, &sess.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", wrapRowError(err))
	}
	return sess, nil
}

// GetSession returns the session with the given UID.
func (s *Store) GetSession(ctx context.Context, uid string) (*models.Session, error) {
	sess := &models.Session{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at FROM chat_sessions WHERE id = $1`,
		uid,
	).Scan(&sess.UID, &sess.UserID, &sess.Title, &sess.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", wrapRowError(err))
	}
	return sess, nil
}

// ListSessions returns all sessions owned by the user, newest first.
func (s *Store) ListSessions(ctx context.Context, userID string) ([]*models.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at FROM chat_sessions
		 WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var list []*models.Session
	for rows.Next() {
		sess := &models.Session{}
		if err := rows.Scan(&sess.UID, &sess.UserID, &sess.Title, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		list = append(list, sess)
	}
	return list, rows.Err()
}

// RenameSession updates a session title. Returns ErrNotFound for unknown UIDs.
func (s *Store) RenameSession(ctx context.Context, uid, title string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET title = $1 WHERE id = $2`, title, uid)
	if err != nil {
		return fmt.Errorf("rename session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rename session: %w", ErrNotFound)
	}
	return nil
}

// DeleteSession removes a session; messages cascade.
func (s *Store) DeleteSession(ctx context.Context, uid string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete session: %w", ErrNotFound)
	}
	return nil
}

// CreateMessage appends a message row to a session's transcript.
func (s *Store) CreateMessage(ctx context.Context, sessionUID, userID string, role models.Role, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (session_id, user_id, role, message)
		 VALUES ($1, $2, $3, $4)`,
		sessionUID, userID, string(role), content,
	)
	if err != nil {
		return fmt.Errorf("create message: %w", wrapRowError(err))
	}
	return nil
}

// ListMessages returns a session's messages ordered oldest first.
func (s *Store) ListMessages(ctx context.Context, sessionUID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, message, created_at FROM chat_messages
		 WHERE session_id = $1 ORDER BY id ASC`,
		sessionUID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var list []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// RecentMessages returns up to limit messages of a session, newest first.
func (s *Store) RecentMessages(ctx context.Context, sessionUID string, limit int) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, message, created_at FROM chat_messages
		 WHERE session_id = $1 ORDER BY id DESC LIMIT $2`,
		sessionUID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	defer rows.Close()

	var list []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// History reconstructs the agent-facing transcript for a session. Only user
// and assistant turns are replayed; persisted tool chatter is not.
func (s *Store) History(ctx context.Context, sessionUID string) ([]models.Message, error) {
	msgs, err := s.ListMessages(ctx, sessionUID)
	if err != nil {
		return nil, err
	}
	history := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == models.RoleUser || m.Role == models.RoleAssistant {
			history = append(history, models.Message{Role: m.Role, Content: m.Content})
		}
	}
	return history, nil
}
