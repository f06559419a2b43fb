package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS models (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		source_file TEXT DEFAULT '',
		source_hash TEXT DEFAULT '',
		body        BLOB NOT NULL,
		nodes       INTEGER NOT NULL DEFAULT 0,
		edges       INTEGER NOT NULL DEFAULT 0,
		agents      INTEGER NOT NULL DEFAULT 0,
		updated_at  TEXT NOT NULL,
		CONSTRAINT uq_model_name UNIQUE (name)
	);

	CREATE INDEX IF NOT EXISTS idx_models_source_file ON models (source_file);
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
