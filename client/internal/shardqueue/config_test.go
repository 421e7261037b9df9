package shardqueue

import (
	"testing"
	"time"
)

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SQ_SHARDS", "8")
	t.Setenv("SQ_QUEUE_SIZE", "256")
	t.Setenv("SQ_ENQUEUE_TIMEOUT", "250ms")
	t.Setenv("SQ_MAX_ATTEMPTS", "5")
	t.Setenv("SQ_BASE_BACKOFF", "50ms")
	t.Setenv("SQ_MAX_INTERVAL", "2s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Shards != 8 || cfg.QueueSize != 256 {
		t.Fatalf("unexpected Shards/QueueSize: %+v", cfg)
	}
	if cfg.EnqueueTimeout != 250*time.Millisecond || cfg.MaxAttempts != 5 {
		t.Fatalf("unexpected timeout/attempts: %+v", cfg)
	}
	if cfg.BaseBackoff != 50*time.Millisecond || cfg.MaxInterval != 2*time.Second {
		t.Fatalf("unexpected backoff settings: base=%v max=%v", cfg.BaseBackoff, cfg.MaxInterval)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Shards != 4 || cfg.QueueSize != 32 || cfg.MaxAttempts != 1 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
