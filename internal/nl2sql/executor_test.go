package nl2sql

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuerier records the statement and arguments it was called with.
type fakeQuerier struct {
	stmt string
	args []any
	rows []map[string]any
	err  error
}

func (f *fakeQuerier) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	f.stmt = query
	f.args = args
	return f.rows, f.err
}

func TestVet(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr error
	}{
		{
			name:  "valid statement",
			query: "SELECT * FROM jira_tickets WHERE assigned_to = :user_id",
		},
		{
			name:  "trailing semicolon is tolerated",
			query: "SELECT * FROM jira_tickets WHERE assigned_to = :user_id;",
		},
		{
			name:  "placeholder in join condition",
			query: "SELECT pr.title FROM pull_requests pr JOIN jira_tickets jt ON pr.ticket_id = jt.id WHERE jt.assigned_to = :user_id",
		},
		{
			name:    "empty statement",
			query:   "   ",
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "bare semicolon",
			query:   ";",
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "missing user binding",
			query:   "SELECT * FROM jira_tickets",
			wantErr: ErrMissingUserBinding,
		},
		{
			name:    "user_id column without placeholder",
			query:   "SELECT * FROM jira_tickets WHERE assigned_to = 'user_id'",
			wantErr: ErrMissingUserBinding,
		},
		{
			name:    "placeholder prefix of longer identifier does not count",
			query:   "SELECT * FROM jira_tickets WHERE assigned_to = :user_identity",
			wantErr: ErrMissingUserBinding,
		},
		{
			name:    "stacked statements",
			query:   "SELECT * FROM jira_tickets WHERE assigned_to = :user_id; DROP TABLE users",
			wantErr: ErrMultipleStatements,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Vet(tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExecutor_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites placeholder and binds user", func(t *testing.T) {
		db := &fakeQuerier{rows: []map[string]any{{"count": int64(3)}}}
		exec := NewExecutor(db)

		rows, err := exec.Execute(ctx,
			"SELECT COUNT(*) FROM jira_tickets WHERE assigned_to = :user_id;",
			"user-123")
		require.NoError(t, err)

		assert.Equal(t, "SELECT COUNT(*) FROM jira_tickets WHERE assigned_to = $1", db.stmt)
		assert.Equal(t, []any{"user-123"}, db.args)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(3), rows[0]["count"])
	})

	t.Run("rewrites every occurrence", func(t *testing.T) {
		db := &fakeQuerier{}
		exec := NewExecutor(db)

		_, err := exec.Execute(ctx,
			"SELECT * FROM jira_tickets WHERE assigned_to = :user_id OR reported_by = :user_id",
			"user-123")
		require.NoError(t, err)

		assert.Equal(t,
			"SELECT * FROM jira_tickets WHERE assigned_to = $1 OR reported_by = $1",
			db.stmt)
		assert.Equal(t, []any{"user-123"}, db.args)
	})

	t.Run("rejects unvetted statement without touching the database", func(t *testing.T) {
		db := &fakeQuerier{}
		exec := NewExecutor(db)

		_, err := exec.Execute(ctx, "SELECT * FROM users", "user-123")
		assert.ErrorIs(t, err, ErrMissingUserBinding)
		assert.Empty(t, db.stmt)
	})

	t.Run("wraps database errors", func(t *testing.T) {
		db := &fakeQuerier{err: errors.New("relation does not exist")}
		exec := NewExecutor(db)

		_, err := exec.Execute(ctx,
			"SELECT * FROM jira_tickets WHERE assigned_to = :user_id",
			"user-123")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "relation does not exist")
	})
}
