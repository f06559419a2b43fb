package ingest

import (
	"context"

	"planviz/internal/store"
)

// Store is the part of store.Store an import needs.
type Store interface {
	EnsureSchema(ctx context.Context) error
	PutModel(ctx context.Context, m store.ModelInput) (*store.Model, error)
	GetSourceHashes(ctx context.Context) (map[string]string, error)
	RemoveStaleModels(ctx context.Context, currentSourceFiles []string) (int64, error)
}
