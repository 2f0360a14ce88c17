package contract

import (
	"context"

	"solemate-be/pkg/store"
)

// HistoryRepository persists session transcripts. Implementations must make
// Append atomic per session; ordering across turns is the caller's concern.
type HistoryRepository interface {
	Load(ctx context.Context, sessionID string) ([]store.Turn, error)
	Append(ctx context.Context, sessionID string, turns ...store.Turn) error
	Delete(ctx context.Context, sessionID string) error
}
