package driver

import (
	"context"

	"github.com/agenthands/lexigraph/internal/core/model"
)

// SnapshotDriver loads cleaned records and persists graph snapshots.
type SnapshotDriver interface {
	// LoadVocabulary and LoadGrammar return the records and the number of elements skipped
	// as malformed. A missing artifact is an empty list.
	LoadVocabulary(ctx context.Context) ([]model.VocabularyRecord, int, error)
	LoadGrammar(ctx context.Context) ([]model.GrammarRecord, int, error)

	// LoadSnapshot fails with an error wrapping fs.ErrNotExist when either artifact is absent.
	LoadSnapshot(ctx context.Context) (model.Snapshot, error)
	// LoadPrevious reports false when no prior edge snapshot exists.
	LoadPrevious(ctx context.Context) ([]model.Edge, bool, error)

	SaveSnapshot(ctx context.Context, snap model.Snapshot) error
	// RotatePrevious keeps the current edges as the prior snapshot.
	RotatePrevious(ctx context.Context) error
}
