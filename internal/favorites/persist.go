package favorites

import (
	"context"
	"fmt"
	"sync"

	"github.com/artpar/gallery/internal/kv"
	"github.com/artpar/gallery/internal/logging"
)

// Pending is a scheduled snapshot write. Writes that queue up behind a busy
// worker are coalesced into one Pending carrying the newest snapshot.
type Pending struct {
	payload string
	done    chan struct{}
	err     error
}

// Wait blocks until the write finished or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// persister writes full snapshots from a single goroutine so writes land in
// the order they were scheduled.
type persister struct {
	backend kv.Store
	key     string
	log     logging.Logger

	mu      sync.Mutex
	pending *Pending
	last    *Pending
	closed  bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

func newPersister(backend kv.Store, key string, log logging.Logger) *persister {
	p := &persister{
		backend: backend,
		key:     key,
		log:     log,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// schedule queues payload and returns the write that will carry it.
func (p *persister) schedule(payload string) *Pending {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		job := &Pending{payload: payload, done: make(chan struct{}), err: ErrStoreClosed}
		close(job.done)
		p.log.Warn("favorites snapshot dropped", "reason", "store closed")
		return job
	}
	job := p.pending
	if job == nil {
		job = &Pending{done: make(chan struct{})}
		p.pending = job
	}
	job.payload = payload
	p.last = job
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return job
}

// flush waits for the most recently scheduled write.
func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	job := p.last
	p.mu.Unlock()

	if job == nil {
		return nil
	}
	return job.Wait(ctx)
}

// close drains queued writes and stops the worker.
func (p *persister) close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.quit)
	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return p.flush(ctx)
}

func (p *persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.writeNext()
		case <-p.quit:
			p.writeNext()
			return
		}
	}
}

func (p *persister) writeNext() {
	p.mu.Lock()
	job := p.pending
	p.pending = nil
	p.mu.Unlock()

	if job == nil {
		return
	}

	if err := p.backend.Set(context.Background(), p.key, job.payload); err != nil {
		job.err = fmt.Errorf("%w: %w", ErrStorageWrite, err)
		p.log.Error("failed to persist favorites", "key", p.key, "error", err)
	} else {
		p.log.Debug("persisted favorites", "key", p.key, "bytes", len(job.payload))
	}
	close(job.done)
}
