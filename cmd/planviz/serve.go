package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"planviz/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := setup()
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	slog.Info("serving MCP over stdio", "version", version)
	server := mcp.NewServer(cfg, db, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
