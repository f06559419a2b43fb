package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS models (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL,
    source_file TEXT DEFAULT '',
    source_hash TEXT DEFAULT '',
    body        JSONB NOT NULL,
    nodes       INTEGER NOT NULL DEFAULT 0,
    edges       INTEGER NOT NULL DEFAULT 0,
    agents      INTEGER NOT NULL DEFAULT 0,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT uq_model_name UNIQUE (name)
);

CREATE INDEX IF NOT EXISTS idx_models_source_file ON models (source_file);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
