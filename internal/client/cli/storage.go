package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/config"
	"github.com/dmitrijs2005/storefront/internal/client/persist"
	"github.com/dmitrijs2005/storefront/internal/filex"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

const defaultPollInterval = time.Second

// watchRetryDelay is the pause before a stopped watcher is started again.
var watchRetryDelay = 2 * time.Second

// storage bundles the selected persistence backend with its watcher loop.
type storage struct {
	store persist.Store
	// watch delivers changes made by other processes; nil for backends
	// that notify synchronously.
	watch func(ctx context.Context) error
	close func() error
}

func openStorage(ctx context.Context, cfg *config.Config, log logging.Logger) (*storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		s := persist.NewHub().Open()
		return &storage{store: s, close: s.Close}, nil

	case config.StorageRedis:
		client, err := persist.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		s := persist.NewRedisStore(client, cfg.RedisNamespace, log)
		return &storage{
			store: s,
			watch: func(ctx context.Context) error { return s.Run(ctx, nil) },
			close: func() error {
				_ = s.Close()
				return client.Close()
			},
		}, nil

	case config.StorageSQLite, "":
		path, err := filex.DataFile(cfg.DataDir, cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		s, err := persist.OpenSQLite(ctx, path, log)
		if err != nil {
			return nil, err
		}
		interval := cfg.PollInterval
		if interval <= 0 {
			interval = defaultPollInterval
		}
		return &storage{
			store: s,
			watch: func(ctx context.Context) error {
				s.Run(ctx, interval)
				return nil
			},
			close: s.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// superviseWatch runs watch until ctx is done, restarting it whenever it
// returns early. The session keeps working on local state in between.
func superviseWatch(ctx context.Context, watch func(ctx context.Context) error, log logging.Logger) {
	for {
		err := watch(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Warn(ctx, "storage watcher failed, restarting", "error", err, "retry_in", watchRetryDelay)
		} else {
			log.Warn(ctx, "storage watcher stopped, restarting", "retry_in", watchRetryDelay)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(watchRetryDelay):
		}
	}
}
