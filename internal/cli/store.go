package cli

import (
	"context"
	"fmt"

	"github.com/everforgeworks/healing-clicker/internal/game"
	"github.com/everforgeworks/healing-clicker/internal/save"
)

const (
	storeFile   = "file"
	storeSQLite = "sqlite"
)

// openStore opens the configured save backend.
func openStore(ctx context.Context, o options) (save.Store, error) {
	switch o.storeKind {
	case storeFile, "":
		return save.NewFileStore(o.savePath), nil
	case storeSQLite:
		return save.OpenSQLite(ctx, o.savePath, o.slot)
	default:
		return nil, fmt.Errorf("unknown store %q (want %s or %s)", o.storeKind, storeFile, storeSQLite)
	}
}

// loadBalance reads the catalog file, or returns the built-in defaults.
func loadBalance(o options) (*game.Balance, error) {
	if o.balancePath == "" {
		return game.DefaultBalance(), nil
	}
	b, err := game.LoadBalance(o.balancePath)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	return b, nil
}

// openManager opens the store and wraps it in a save manager.
func openManager(ctx context.Context, o options) (*save.Manager, func(), error) {
	store, err := openStore(ctx, o)
	if err != nil {
		return nil, nil, err
	}
	m := save.NewManager(store)
	cleanup := func() {
		_ = m.Close()
	}
	return m, cleanup, nil
}
