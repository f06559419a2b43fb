package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"planviz/internal/store"
)

func (c *Client) PutModel(ctx context.Context, m store.ModelInput) (*store.Model, error) {
	if strings.TrimSpace(m.Name) == "" {
		return nil, fmt.Errorf("model name is required")
	}

	query := `
INSERT INTO models (id, name, source_file, source_hash, body, nodes, edges, agents, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
ON CONFLICT (name) DO UPDATE SET
    source_file = EXCLUDED.source_file,
    source_hash = EXCLUDED.source_hash,
    body = EXCLUDED.body,
    nodes = EXCLUDED.nodes,
    edges = EXCLUDED.edges,
    agents = EXCLUDED.agents,
    updated_at = now()
RETURNING id, updated_at
`

	out := store.Model{
		Name:       m.Name,
		SourceFile: m.SourceFile,
		SourceHash: m.SourceHash,
		Body:       m.Body,
		Stats:      m.Stats,
	}
	var id uuid.UUID
	err := c.pool.QueryRow(ctx, query,
		uuid.New(),
		m.Name,
		m.SourceFile,
		m.SourceHash,
		string(m.Body),
		m.Stats.Nodes,
		m.Stats.Edges,
		m.Stats.Agents,
	).Scan(&id, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upserting model: %w", err)
	}
	out.ID = id.String()
	return &out, nil
}

func (c *Client) GetModel(ctx context.Context, name string) (*store.Model, error) {
	query := `
SELECT id, name, source_file, source_hash, body::text, nodes, edges, agents, updated_at
FROM models
WHERE name = $1
`

	var m store.Model
	var id uuid.UUID
	var body string
	err := c.pool.QueryRow(ctx, query, name).Scan(
		&id,
		&m.Name,
		&m.SourceFile,
		&m.SourceHash,
		&body,
		&m.Stats.Nodes,
		&m.Stats.Edges,
		&m.Stats.Agents,
		&m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", store.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("getting model: %w", err)
	}
	m.ID = id.String()
	m.Body = []byte(body)
	return &m, nil
}

func (c *Client) ListModels(ctx context.Context) ([]store.ModelSummary, error) {
	query := `
SELECT id, name, source_file, nodes, edges, agents, updated_at
FROM models
ORDER BY name
`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer rows.Close()

	models := make([]store.ModelSummary, 0)
	for rows.Next() {
		var m store.ModelSummary
		var id uuid.UUID
		if err := rows.Scan(&id, &m.Name, &m.SourceFile, &m.Stats.Nodes, &m.Stats.Edges, &m.Stats.Agents, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning model: %w", err)
		}
		m.ID = id.String()
		models = append(models, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating model rows: %w", err)
	}

	return models, nil
}

func (c *Client) DeleteModel(ctx context.Context, name string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM models WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting model: %w", err)
	}
	if tag.RowsAffected() == 0 {
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

	rows, err := c.pool.Query(ctx, query)
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

func (c *Client) RemoveStaleModels(ctx context.Context, currentSourceFiles []string) (int64, error) {
	if len(currentSourceFiles) == 0 {
		return 0, nil
	}

	query := `
DELETE FROM models
WHERE source_file IS NOT NULL
  AND source_file <> ''
  AND NOT (source_file = ANY($1))
`

	tag, err := c.pool.Exec(ctx, query, currentSourceFiles)
	if err != nil {
		return 0, fmt.Errorf("removing stale models: %w", err)
	}

	return tag.RowsAffected(), nil
}
