package types

import (
	"fmt"

	"github.com/google/uuid"
)

// NewEventID returns a unique identifier for an extracted event, prefixed
// with the owning system so identifiers stay readable in the graph browser.
func NewEventID(systemID string) string {
	return fmt.Sprintf("%s-evt-%s", systemID, uuid.NewString()[:8])
}

// NewRunID returns a unique identifier for one load run.
func NewRunID() string {
	return uuid.NewString()
}
