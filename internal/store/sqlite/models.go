package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"planviz/internal/store"
)

func (c *Client) PutModel(ctx context.Context, m store.ModelInput) (*store.Model, error) {
	if strings.TrimSpace(m.Name) == "" {
		return nil, fmt.Errorf("model name is required")
	}
	now := time.Now().UTC()

	query := `
	INSERT INTO models (id, name, source_file, source_hash, body, nodes, edges, agents, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (name) DO UPDATE SET
		source_file = excluded.source_file,
		source_hash = excluded.source_hash,
		body = excluded.body,
		nodes = excluded.nodes,
		edges = excluded.edges,
		agents = excluded.agents,
		updated_at = excluded.updated_at
	RETURNING id
	`

	var id string
	err := c.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		m.Name,
		m.SourceFile,
		m.SourceHash,
		m.Body,
		m.Stats.Nodes,
		m.Stats.Edges,
		m.Stats.Agents,
		now.Format(time.RFC3339Nano),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("upserting model: %w", err)
	}

	return &store.Model{
		ID:         id,
		Name:       m.Name,
		SourceFile: m.SourceFile,
		SourceHash: m.SourceHash,
		Body:       m.Body,
		Stats:      m.Stats,
		UpdatedAt:  now,
	}, nil
}

func (c *Client) GetModel(ctx context.Context, name string) (*store.Model, error) {
	query := `
	SELECT id, name, source_file, source_hash, body, nodes, edges, agents, updated_at
	FROM models
	WHERE name = ?
	`

	var m store.Model
	var updated string
	err := c.db.QueryRowContext(ctx, query, name).Scan(
		&m.ID,
		&m.Name,
		&m.SourceFile,
		&m.SourceHash,
		&m.Body,
		&m.Stats.Nodes,
		&m.Stats.Edges,
		&m.Stats.Agents,
		&updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", store.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("getting model: %w", err)
	}
	if m.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &m, nil
}

func (c *Client) ListModels(ctx context.Context) ([]store.ModelSummary, error) {
	query := `
	SELECT id, name, source_file, nodes, edges, agents, updated_at
	FROM models
	ORDER BY name
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer rows.Close()

	models := make([]store.ModelSummary, 0)
	for rows.Next() {
		var m store.ModelSummary
		var updated string
		if err := rows.Scan(&m.ID, &m.Name, &m.SourceFile, &m.Stats.Nodes, &m.Stats.Edges, &m.Stats.Agents, &updated); err != nil {
			return nil, fmt.Errorf("scanning model: %w", err)
		}
		if m.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		models = append(models, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating model rows: %w", err)
	}

	return models, nil
}

func (c *Client) DeleteModel(ctx context.Context, name string) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM models WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting model: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", store.ErrNotFound, name)
	}
	return nil
}

func (c *Client) GetSourceHashes(ctx context.Context) (map[string]string, error) {
	query := `
	SELECT source_file, source_hash FROM models
	WHERE source_file IS NOT NULL
	  AND source_file <> ''
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query source hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var file, hash string
		if err := rows.Scan(&file, &hash); err != nil {
			return nil, fmt.Errorf("scanning source hash: %w", err)
		}
		hashes[file] = hash
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating source hashes: %w", err)
	}

	return hashes, nil
}

// RemoveStaleModels deletes ingested models whose source file is no longer present. Models
// saved by hand have no source file and are kept.
func (c *Client) RemoveStaleModels(ctx context.Context, currentSourceFiles []string) (int64, error) {
	if len(currentSourceFiles) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(currentSourceFiles))
	args := make([]any, len(currentSourceFiles))
	for i, f := range currentSourceFiles {
		placeholders[i] = "?"
		args[i] = f
	}

	query := fmt.Sprintf(`
	DELETE FROM models
	WHERE source_file IS NOT NULL
	  AND source_file <> ''
	  AND source_file NOT IN (%s)
	`, strings.Join(placeholders, ", "))

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("removing stale models: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return affected, nil
}
