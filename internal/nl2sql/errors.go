package nl2sql

import "errors"

// Sentinel errors for query vetting. Check with errors.Is().
var (
	// ErrMissingUserBinding indicates the generated statement has no
	// :user_id placeholder. Such a statement would run unfiltered and is
	// rejected before reaching the database.
	ErrMissingUserBinding = errors.New("generated query lacks :user_id binding")

	// ErrMultipleStatements indicates the model emitted more than one
	// statement. Only a single executable statement is accepted.
	ErrMultipleStatements = errors.New("generated query contains multiple statements")

	// ErrEmptyQuery indicates the model returned no statement at all.
	ErrEmptyQuery = errors.New("generated query is empty")
)
