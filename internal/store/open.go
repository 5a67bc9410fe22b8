package store

import (
	"context"
	"fmt"
	"logicode/internal/platform/config"
	"logicode/internal/platform/database"

	"go.uber.org/zap"
)

// Open connects the backend selected by cfg.StoreBackend. The returned close
// function releases the backend's connections.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Accessor, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case config.BackendMemory:
		return NewAccessor(NewMemoryKV(), log), noop, nil

	case config.BackendRedis:
		rdb, err := database.ConnectRedis(ctx, database.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return NewAccessor(NewRedisKV(rdb, cfg.StoreNamespace), log), rdb.Close, nil

	case config.BackendPostgres, config.BackendSQLite:
		open, dialect, dsn := database.OpenPostgres, DialectPostgres, cfg.DBConnStr
		if cfg.StoreBackend == config.BackendSQLite {
			open, dialect, dsn = database.OpenSQLite, DialectSQLite, cfg.SQLitePath
		}
		db, err := open(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		kv := NewSQLKV(db, dialect, cfg.StoreNamespace)
		if err := kv.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return NewAccessor(kv, log), db.Close, nil
	}
	return nil, nil, fmt.Errorf("store: unsupported backend %q", cfg.StoreBackend)
}
