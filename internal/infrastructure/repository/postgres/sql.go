package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Connection poolers running in transaction mode can drop the unnamed
// prepared statement between Parse and Bind. Both failures are safe to retry
// once for single-statement reads.
func withStatementRetry(fn func() error) error {
	err := fn()
	if err != nil && (isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err)) {
		return fn()
	}
	return err
}

func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "prepared statement")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "26000" {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unnamed prepared statement does not exist") {
		return true
	}
	return strings.Contains(msg, "prepared statement") && strings.Contains(msg, "26000")
}
