package stats

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	asyncQueue   = 16
	asyncTimeout = 5 * time.Second
)

type result struct {
	winner, loser string
}

// Async hands results to a background worker so the caller never waits on
// the backing store. Failures are logged and dropped.
type Async struct {
	rec  Recorder
	log  *zap.Logger
	jobs chan result

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewAsync(rec Recorder, log *zap.Logger) *Async {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Async{
		rec:  rec,
		log:  log,
		jobs: make(chan result, asyncQueue),
		done: make(chan struct{}),
	}
	go a.run()
	return a
}

// RecordResult queues the result and returns at once. A full queue drops it.
func (a *Async) RecordResult(ctx context.Context, winnerID, loserID string) error {
	if err := validatePair(winnerID, loserID); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.jobs <- result{winner: winnerID, loser: loserID}:
	default:
		a.log.Warn("stats queue full, result dropped",
			zap.String("winner", winnerID), zap.String("loser", loserID))
	}
	return nil
}

// Close stops accepting results, waits for queued ones to be written and
// then closes the wrapped store if it can be closed.
func (a *Async) Close() {
	a.mu.Lock()
	first := !a.closed
	if first {
		a.closed = true
		close(a.jobs)
	}
	a.mu.Unlock()
	<-a.done
	if c, ok := a.rec.(interface{ Close() }); ok && first {
		c.Close()
	}
}

func (a *Async) run() {
	defer close(a.done)
	for job := range a.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		err := a.rec.RecordResult(ctx, job.winner, job.loser)
		cancel()
		if err != nil {
			a.log.Error("record result failed",
				zap.String("winner", job.winner), zap.String("loser", job.loser), zap.Error(err))
			continue
		}
		a.log.Debug("result recorded", zap.String("winner", job.winner), zap.String("loser", job.loser))
	}
}
