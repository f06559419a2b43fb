package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("model not found")

// Store persists named world snapshots for the CLI and the MCP server.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	PutModel(ctx context.Context, m ModelInput) (*Model, error)
	GetModel(ctx context.Context, name string) (*Model, error)
	ListModels(ctx context.Context) ([]ModelSummary, error)
	DeleteModel(ctx context.Context, name string) error

	GetSourceHashes(ctx context.Context) (map[string]string, error)
	RemoveStaleModels(ctx context.Context, currentSourceFiles []string) (int64, error)
}
