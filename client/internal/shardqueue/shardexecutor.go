// Package shardqueue provides a small sharded work queue that runs jobs in
// FIFO order per key while allowing parallelism across shards.
//
// The portal client keys jobs by calendar date, so two commands for the same
// day never interleave while different days proceed independently.
package shardqueue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	clienterrors "github.com/techsbuilds/pgsphere-customer/client/internal/errors"
)

type queuedJob struct {
	ctx    context.Context
	job    Job
	result chan<- error // buffered; receives the final error exactly once
}

// ShardExecutor executes Jobs on worker goroutines partitioned by a stable
// hash of the key.
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob

	// mu orders enqueues against Stop: once closed is set no job can land
	// in a queue whose worker has already drained.
	mu     sync.RWMutex
	closed bool
	done   chan struct{}

	wg sync.WaitGroup
}

// NewShardExecutor constructs the executor and starts its shard workers.
func NewShardExecutor(cfg Config) *ShardExecutor {
	cfg = cfg.withDefaults()
	p := &ShardExecutor{
		cfg:    cfg,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := range p.queues {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Do enqueues job for the shard derived from key and waits for it to
// finish, returning the error of its last attempt.
//
//   - Returns ErrExecutorClosed if the executor is stopped.
//   - Returns ErrQueueFull (wrapped in *QueueFullError) if the shard is full
//     after EnqueueTimeout elapses.
//   - Returns ctx.Err() if ctx ends first. A job still queued at that point
//     is skipped; one already running is left to finish.
func (p *ShardExecutor) Do(ctx context.Context, key string, job Job) error {
	result := make(chan error, 1)
	if err := p.enqueue(queuedJob{ctx: ctx, job: job, result: result}, key); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop lets every worker drain its queue, waits for them and returns. It is
// idempotent and safe for concurrent use.
func (p *ShardExecutor) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	log.Debug().Int("shards", p.cfg.Shards).Msg("shardqueue: stopping executor")
	p.wg.Wait()
	log.Debug().Msg("shardqueue: executor stopped")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

func (p *ShardExecutor) enqueue(qj queuedJob, key string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrExecutorClosed
	}

	shard := p.shardFor(key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- qj:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-qj.ctx.Done():
		return qj.ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()
	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			p.finish(qj, p.execute(label, qj))
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.done:
			drained := 0
			for {
				select {
				case qj := <-ch:
					p.finish(qj, p.execute(label, qj))
					drained++
				default:
					if drained > 0 {
						log.Debug().Int("shard", idx).Int("jobs", drained).Msg("shardqueue: drained on stop")
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// execute runs qj until it succeeds, fails irrecoverably or runs out of
// attempts. Waits between attempts follow an exponential backoff.
func (p *ShardExecutor) execute(label string, qj queuedJob) error {
	if qj.job == nil {
		return nil
	}
	if err := qj.ctx.Err(); err != nil {
		return err
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	for attempt := 1; ; attempt++ {
		start := time.Now()
		err := runSafely(qj.ctx, qj.job)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		if err == nil || !retryable(err) || attempt >= p.cfg.MaxAttempts {
			return err
		}

		wait := exp.NextBackOff()
		log.Debug().Err(err).Str("shard", label).Int("attempt", attempt).Dur("wait", wait).Msg("shardqueue: retrying job")
		retriesTotal.WithLabelValues(label).Inc()

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-qj.ctx.Done():
			timer.Stop()
			return qj.ctx.Err()
		}
	}
}

func (p *ShardExecutor) finish(qj queuedJob, err error) {
	qj.result <- err
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}

func runSafely(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("shardqueue: job panic")
			err = &PanicError{Value: r}
		}
	}()
	return job.Run(ctx)
}

// retryable is false for classified irrecoverable errors, panics and
// context errors.
func retryable(err error) bool {
	if clienterrors.IsIrrecoverable(err) {
		return false
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
