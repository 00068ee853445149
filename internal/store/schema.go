package store

// schemaStatements creates the relational schema. Statement order matters:
// referenced tables first.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS users (
		id       UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name     TEXT NOT NULL,
		email    TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL DEFAULT '',
		role     TEXT NOT NULL DEFAULT 'developer'
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS jira_tickets (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'Open',
		assigned_to UUID REFERENCES users(id),
		project_id  UUID REFERENCES projects(id)
	)`,
	`CREATE TABLE IF NOT EXISTS pull_requests (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title      TEXT NOT NULL,
		summary    TEXT NOT NULL DEFAULT '',
		ticket_id  UUID REFERENCES jira_tickets(id),
		author_id  UUID REFERENCES users(id),
		project_id UUID REFERENCES projects(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS git_diffs (
		id        UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		diff_text TEXT NOT NULL,
		pr_id     UUID REFERENCES pull_requests(id)
	)`,
	`CREATE TABLE IF NOT EXISTS chat_sessions (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    UUID NOT NULL,
		title      TEXT NOT NULL DEFAULT 'New Session',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id         BIGSERIAL PRIMARY KEY,
		session_id UUID NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
		user_id    UUID NOT NULL,
		role       TEXT NOT NULL,
		message    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_jira_tickets_assigned ON jira_tickets(assigned_to)`,
	`CREATE INDEX IF NOT EXISTS idx_git_diffs_pr ON git_diffs(pr_id)`,
}
