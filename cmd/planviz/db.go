package main

import (
	"context"
	"fmt"

	"planviz/internal/config"
	"planviz/internal/store"
	"planviz/internal/store/postgres"
	"planviz/internal/store/sqlite"
)

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	var db store.Store
	var err error
	switch dsn := cfg.Store.DSN; {
	case config.IsSQLiteDSN(dsn):
		db, err = sqlite.New(ctx, dsn)
	case config.IsPostgresDSN(dsn):
		db, err = postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("store.dsn %q is neither sqlite:// nor postgres://", dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}
