package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/teamflow/internal/domain/record"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// storeError wraps a slot failure with the operation name. Failures to reach
// the store are additionally marked as ErrDependencyUnavailable.
func storeError(op string, err error) error {
	if errors.Is(err, record.ErrUnavailable) {
		return fmt.Errorf("%s: %w: %w", op, ErrDependencyUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireID(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
	}
	return value, nil
}
