package store

import (
	"context"
	"fmt"
)

// User is an account row, minus the password hash.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// PullRequest is a pull-request row joined with its ticket title.
type PullRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	TicketID    string `json:"ticket_id"`
	TicketTitle string `json:"ticket_title"`
}

// DiffsByPR returns the raw diff texts attached to a pull request.
func (s *Store) DiffsByPR(ctx context.Context, prID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT diff_text FROM git_diffs WHERE pr_id = $1`, prID)
	if err != nil {
		return nil, fmt.Errorf("diffs by pr: %w", err)
	}
	defer rows.Close()

	var diffs []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan diff: %w", err)
		}
		diffs = append(diffs, d)
	}
	return diffs, rows.Err()
}

// SearchPullRequests finds the caller's pull requests whose title or summary
// matches the keyword, newest first.
func (s *Store) SearchPullRequests(ctx context.Context, userID, keyword string) ([]PullRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pr.id, pr.title, pr.summary, COALESCE(pr.ticket_id::TEXT, ''), COALESCE(jt.title, '')
		 FROM pull_requests pr
		 LEFT JOIN jira_tickets jt ON pr.ticket_id = jt.id
		 WHERE pr.author_id = $1
		   AND (pr.title ILIKE '%' || $2 || '%' OR pr.summary ILIKE '%' || $2 || '%')
		 ORDER BY pr.created_at DESC
		 LIMIT 20`,
		userID, keyword,
	)
	if err != nil {
		return nil, fmt.Errorf("search pull requests: %w", err)
	}
	defer rows.Close()

	var list []PullRequest
	for rows.Next() {
		var pr PullRequest
		if err := rows.Scan(&pr.ID, &pr.Title, &pr.Summary, &pr.TicketID, &pr.TicketTitle); err != nil {
			return nil, fmt.Errorf("scan pull request: %w", err)
		}
		list = append(list, pr)
	}
	return list, rows.Err()
}

// GetUserByEmail looks up a user account for authentication.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", wrapRowError(err))
	}
	return u, nil
}

// ListUsers returns all user accounts ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, role FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
