package history

import (
	"context"
	"fmt"

	"dudhiya-collection/internal/config"
)

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.HistoryConfig) (Store, error) {
	switch cfg.Backend {
	case config.HistorySQLite:
		return OpenSQLite(cfg.DBPath)
	case config.HistoryMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
	case config.HistoryNone, "":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
