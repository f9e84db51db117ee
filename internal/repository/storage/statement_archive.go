package storage

import (
	"context"

	"github.com/google/uuid"
)

// StatementArchive stores raw uploaded statement files so an import can be
// audited or replayed later. Archival is best-effort from the importer's
// point of view; parse results never depend on it.
type StatementArchive interface {
	// Store persists the raw statement bytes and returns the storage key
	Store(ctx context.Context, userID uuid.UUID, batchID uuid.UUID, filename string, data []byte) (string, error)
}

// NoOpArchive discards statements (for tests or when S3 is not configured)
type NoOpArchive struct{}

// Store discards the data and returns an empty key
func (n *NoOpArchive) Store(ctx context.Context, userID uuid.UUID, batchID uuid.UUID, filename string, data []byte) (string, error) {
	return "", nil
}
