package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prawko/practice-backend/internal/config"
	"github.com/prawko/practice-backend/internal/database"
)

// The three logical keys of the application state.
const (
	KeyStats         = "stats"
	KeySessions      = "sessions"
	KeyActiveSession = "activeSession"
)

// Store is the persistence contract: a key-value store over JSON-encoded
// values. Get decodes the stored value into dst and reports whether a usable
// value was found; a missing or corrupt value yields (false, nil), so the
// caller keeps its fallback. Errors are reserved for backend failures.
// Writes to different keys are independent: there are no transactions.
type Store interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Close() error
}

// Open selects and connects the store driver named by the configuration.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case "redis":
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return NewRedis(rdb, log), nil
	case "postgres":
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return NewPostgres(pool, log), nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// decodeInto is the safe-decode-or-default step shared by all drivers.
// A corrupt stored value is logged and treated as absent, never as an
// error: availability wins over the corrupted entry.
func decodeInto(raw []byte, dst any, key string, log zerolog.Logger) bool {
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Corrupt stored value, falling back to default")
		return false
	}
	return true
}
