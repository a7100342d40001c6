package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/viper"

	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/config"
	"github.com/Veraticus/thirteenf/internal/storage"
)

// loadConfig loads the configuration from the global viper instance.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens the record store at dbPath and runs migrations.
func initStorage(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	dbPath = config.ExpandPath(dbPath)
	if dbPath == "" {
		return nil, common.NewUserError("no record store configured; pass --db or set storage.database", common.ErrMissingConfig)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// openStore resolves the database from the flag or the config and opens it.
func openStore(ctx context.Context, dbFlag string) (*storage.SQLiteStorage, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	dbPath := cfg.Storage.Database
	if dbFlag != "" {
		dbPath = dbFlag
	}

	store, err := initStorage(ctx, dbPath)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

// parseID parses a positive record id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("invalid record id %q", arg), err)
	}
	return id, nil
}
