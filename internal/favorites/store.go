package favorites

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/artpar/gallery/internal/kv"
	"github.com/artpar/gallery/internal/logging"
	"github.com/google/uuid"
)

// Store holds the set of favorite images, keyed by URL.
//
// Mutations update memory synchronously and schedule a full snapshot write
// to the backing kv.Store. The in-memory set stays authoritative for the rest
// of the process even when a write fails.
type Store struct {
	mu      sync.RWMutex
	records []Record // insertion order

	key   string
	now   func() time.Time
	newID func() string
	log   logging.Logger

	backend kv.Store
	persist *persister

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the kv key the snapshot is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithClock sets the time source for AddedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator sets the record ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// WithLogger sets the logger persist failures are reported to.
func WithLogger(log logging.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates an empty store backed by backend. Call Load to read the
// persisted snapshot.
func NewStore(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		key:     DefaultKey,
		now:     time.Now,
		newID:   newRecordID,
		log:     logging.NewNop(),
		backend: backend,
		subs:    make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.persist = newPersister(backend, s.key, s.log)
	return s
}

// newRecordID returns a UUIDv7, which embeds the creation time in
// milliseconds and sorts by it.
func newRecordID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Load replaces the in-memory set with the persisted snapshot. A missing
// snapshot yields an empty set. Read failures and malformed snapshots also
// yield an empty set; the returned error is a warning, the store stays usable.
func (s *Store) Load(ctx context.Context) error {
	payload, err := s.backend.Get(ctx, s.key)

	var records []Record
	var loadErr error
	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		loadErr = fmt.Errorf("%w: %w", ErrStorageRead, err)
	default:
		records, err = decodeSnapshot(payload)
		if err != nil {
			records = nil
			loadErr = fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	if loadErr != nil {
		s.log.Warn("starting with empty favorites", "key", s.key, "error", loadErr)
	} else {
		s.log.Debug("loaded favorites", "key", s.key, "count", len(records))
	}
	s.notify(Change{Kind: ChangeLoaded})
	return loadErr
}

// IsFavorite reports whether url is in the set.
func (s *Store) IsFavorite(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(url) >= 0
}

// Add inserts url and returns true, or returns false if it is already a
// favorite.
func (s *Store) Add(url string) bool {
	s.mu.Lock()
	added := s.addLocked(url)
	if added {
		s.scheduleLocked()
	}
	s.mu.Unlock()

	if added {
		s.notify(Change{Kind: ChangeAdded, URL: url})
	}
	return added
}

// Remove deletes url from the set. It reports completion, not change: the
// result is true even when url was not a favorite.
func (s *Store) Remove(url string) bool {
	s.mu.Lock()
	removed := s.removeLocked(url)
	s.scheduleLocked()
	s.mu.Unlock()

	if removed {
		s.notify(Change{Kind: ChangeRemoved, URL: url})
	}
	return true
}

// Toggle flips membership of url and returns the resulting membership.
func (s *Store) Toggle(url string) bool {
	s.mu.Lock()
	change := Change{Kind: ChangeAdded, URL: url}
	if s.removeLocked(url) {
		change.Kind = ChangeRemoved
	} else {
		s.addLocked(url)
	}
	s.scheduleLocked()
	s.mu.Unlock()

	s.notify(change)
	return change.Kind == ChangeAdded
}

// List returns all records, most recently added first. Records with equal
// AddedAt are ordered by reverse insertion.
func (s *Store) List() []Record {
	s.mu.RLock()
	list := slices.Clone(s.records)
	s.mu.RUnlock()

	slices.Reverse(list)
	slices.SortStableFunc(list, func(a, b Record) int {
		return b.AddedAt.Compare(a.AddedAt)
	})
	return list
}

// Count returns the number of favorites.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes every favorite.
func (s *Store) Clear() {
	s.mu.Lock()
	s.records = nil
	s.scheduleLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeCleared})
}

// Subscribe registers fn to be called after every change. Callbacks run on
// the mutating goroutine after the store lock is released.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Flush waits for every scheduled snapshot write and returns the error of
// the latest one.
func (s *Store) Flush(ctx context.Context) error {
	return s.persist.flush(ctx)
}

// Close flushes pending writes and stops the persist worker. The backing
// kv.Store is left open.
func (s *Store) Close(ctx context.Context) error {
	return s.persist.close(ctx)
}

func (s *Store) indexOf(url string) int {
	return slices.IndexFunc(s.records, func(r Record) bool {
		return r.URL == url
	})
}

func (s *Store) addLocked(url string) bool {
	if s.indexOf(url) >= 0 {
		return false
	}
	s.records = append(s.records, Record{
		URL:     url,
		ID:      s.newID(),
		AddedAt: s.now().UTC().Truncate(time.Millisecond),
	})
	return true
}

func (s *Store) removeLocked(url string) bool {
	i := s.indexOf(url)
	if i < 0 {
		return false
	}
	s.records = slices.Delete(s.records, i, i+1)
	return true
}

// scheduleLocked snapshots the records and hands them to the persister.
// Must be called with s.mu held so snapshots queue in mutation order.
func (s *Store) scheduleLocked() {
	payload, err := encodeSnapshot(s.records)
	if err != nil {
		s.log.Error("failed to encode favorites", "error", err)
		return
	}
	s.persist.schedule(payload)
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
