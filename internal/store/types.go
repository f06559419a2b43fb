package store

import (
	"time"

	"planviz/internal/world"
)

// Stats summarises a snapshot so listings need not parse the body.
type Stats struct {
	Nodes  int `json:"nodes"`
	Edges  int `json:"edges"`
	Agents int `json:"agents"`
}

func StatsOf(w *world.World) Stats {
	return Stats{Nodes: len(w.Nodes), Edges: len(w.Edges), Agents: len(w.Agents)}
}

type ModelInput struct {
	Name       string
	SourceFile string
	SourceHash string
	Body       []byte
	Stats      Stats
}

type Model struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SourceFile string    `json:"source_file,omitempty"`
	SourceHash string    `json:"source_hash,omitempty"`
	Body       []byte    `json:"-"`
	Stats      Stats     `json:"stats"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ModelSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SourceFile string    `json:"source_file,omitempty"`
	Stats      Stats     `json:"stats"`
	UpdatedAt  time.Time `json:"updated_at"`
}
