package client

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/techsbuilds/pgsphere-customer/client/internal/shardqueue"
)

// executor runs jobs keyed by calendar date and waits for their result.
type executor interface {
	Do(ctx context.Context, key string, job shardqueue.Job) error
	Stop()
}

// executorConfig reads the SQ_ tunables and pins MaxAttempts, which the
// session decides: commands are never retried, fetches retry only when
// WithFetchRetries asks for it.
func executorConfig(attempts int) shardqueue.Config {
	cfg, err := shardqueue.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("Invalid SQ_ executor settings; using defaults")
		cfg = shardqueue.Config{}
	}
	cfg.MaxAttempts = attempts
	return cfg
}

func newCommandExecutor() *shardqueue.ShardExecutor {
	return shardqueue.NewShardExecutor(executorConfig(1))
}

func newFetchExecutor(attempts int) *shardqueue.ShardExecutor {
	return shardqueue.NewShardExecutor(executorConfig(attempts))
}
