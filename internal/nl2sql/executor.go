package nl2sql

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// userIDPlaceholder matches the :user_id parameter the generation prompt
// requires in every statement.
var userIDPlaceholder = regexp.MustCompile(`:user_id\b`)

// rowQuerier executes a parameterized statement. Satisfied by *store.Store.
type rowQuerier interface {
	Query(ctx context.Context, query string, args ...any) ([]map[string]any, error)
}

// Executor vets a generated statement and runs it with the authenticated
// user's identity bound. This is the RBAC enforcement point: the binding
// happens here, in the same way on every invocation, regardless of what the
// model generated.
type Executor struct {
	db rowQuerier
}

// NewExecutor creates an executor over the given database.
func NewExecutor(db rowQuerier) *Executor {
	return &Executor{db: db}
}

// Vet checks a candidate statement without executing it. A statement that
// cannot take a user_id binding is malformed even when syntactically valid.
func Vet(query string) error {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if trimmed == "" {
		return ErrEmptyQuery
	}
	if strings.Contains(trimmed, ";") {
		return ErrMultipleStatements
	}
	if !userIDPlaceholder.MatchString(trimmed) {
		return ErrMissingUserBinding
	}
	return nil
}

// Execute vets the statement, rewrites every :user_id occurrence to the
// first positional parameter, and runs it with userID bound.
func (e *Executor) Execute(ctx context.Context, query, userID string) ([]map[string]any, error) {
	if err := Vet(query); err != nil {
		return nil, err
	}

	stmt := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	stmt = userIDPlaceholder.ReplaceAllString(stmt, "$$1")

	rows, err := e.db.Query(ctx, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("execute generated query: %w", err)
	}
	return rows, nil
}
