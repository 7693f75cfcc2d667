package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// UUIDv7Generator returns time-ordered UUIDs. IDs minted later sort after
// earlier ones lexicographically.
type UUIDv7Generator struct{}

func NewUUIDv7Generator() *UUIDv7Generator {
	return &UUIDv7Generator{}
}

func (g *UUIDv7Generator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuidv7: %w", err)
	}

	return v.String(), nil
}
