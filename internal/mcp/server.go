// Package mcp serves timelines, scenes, and model editing as MCP tools.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"planviz/internal/config"
	"planviz/internal/store"
)

type Server struct {
	cfg *config.Config
	db  store.Store
	mcp *sdk.Server
}

// NewServer registers every tool. db may be nil, in which case the model storage tools fail
// and the others only accept inline models.
func NewServer(cfg *config.Config, db store.Store, version string) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg: cfg,
		db:  db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "planviz",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
