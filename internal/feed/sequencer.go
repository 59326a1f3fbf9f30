package feed

import (
	"math/rand/v2"
	"slices"
	"sync"
)

// Direction is a navigation direction through the feed.
type Direction int

const (
	Next Direction = iota
	Prev
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Prev:
		return "prev"
	default:
		return "unknown"
	}
}

// Window is the set of images around the cursor that a viewer should warm.
// Empty strings mean "no image" in that slot.
type Window struct {
	Current string
	Next    string
	Prev    string
}

// Sequencer decides which image is shown next or previous and keeps the
// history of images the user has actually navigated to.
type Sequencer struct {
	mu       sync.Mutex
	pool     []string
	order    []string
	history  []string
	position int
	// cycle is the index in history where the current order started.
	cycle   int
	shuffle func(n int, swap func(i, j int))
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithRand makes shuffles draw from r, for reproducible sequences.
func WithRand(r *rand.Rand) Option {
	return func(s *Sequencer) {
		s.shuffle = r.Shuffle
	}
}

// New creates a sequencer over a copy of pool and initializes it.
func New(pool []string, opts ...Option) *Sequencer {
	s := &Sequencer{
		pool:    slices.Clone(pool),
		shuffle: rand.Shuffle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Initialize()
	return s
}

// Initialize draws a fresh order and seeds the history with its first image.
// An empty pool leaves the sequencer without a current image.
func (s *Sequencer) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.permutation("", false)
	s.history = nil
	s.position = 0
	s.cycle = 0
	if len(s.order) > 0 {
		s.history = []string{s.order[0]}
	}
}

// Current returns the image under the cursor.
func (s *Sequencer) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

// Advance moves the cursor and returns the image now under it.
// Moving back from the first image and any move on an empty feed are no-ops.
func (s *Sequencer) Advance(dir Direction) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return "", false
	}

	switch dir {
	case Prev:
		if s.position > 0 {
			s.position--
		}
	case Next:
		if s.position < len(s.history)-1 {
			s.position++
			break
		}
		next, ok := s.candidate()
		if !ok {
			s.order = s.permutation(s.history[len(s.history)-1], true)
			s.cycle = len(s.history)
			next = s.order[0]
		}
		s.commit(next)
	}

	return s.current()
}

// Preload returns the current image and its neighbours without moving.
// Next is left empty when reaching it would require drawing a new cycle.
func (s *Sequencer) Preload() Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	var w Window
	w.Current, _ = s.current()
	if len(s.history) == 0 {
		return w
	}
	if s.position > 0 {
		w.Prev = s.history[s.position-1]
	}
	if s.position < len(s.history)-1 {
		w.Next = s.history[s.position+1]
	} else if next, ok := s.candidate(); ok {
		w.Next = next
	}
	return w
}

// History returns a copy of every image navigated to, oldest first.
func (s *Sequencer) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Order returns a copy of the current shuffled cycle.
func (s *Sequencer) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

// Pool returns a copy of the image pool.
func (s *Sequencer) Pool() []string {
	return slices.Clone(s.pool)
}

// Position returns the cursor index into History.
func (s *Sequencer) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Len returns the length of the history.
func (s *Sequencer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *Sequencer) current() (string, bool) {
	if len(s.history) == 0 {
		return "", false
	}
	return s.history[s.position], true
}

// candidate returns the first image of the current order not yet shown in
// this cycle. It does not modify any state.
func (s *Sequencer) candidate() (string, bool) {
	seen := make(map[string]struct{}, len(s.history)-s.cycle)
	for _, img := range s.history[s.cycle:] {
		seen[img] = struct{}{}
	}
	for _, img := range s.order {
		if _, ok := seen[img]; !ok {
			return img, true
		}
	}
	return "", false
}

// commit appends img at the frontier and moves the cursor onto it.
func (s *Sequencer) commit(img string) {
	s.history = append(s.history, img)
	s.position = len(s.history) - 1
}

// permutation returns a Fisher-Yates shuffle of the pool. When avoiding is
// set and the pool has other images, avoid is never placed first.
func (s *Sequencer) permutation(avoid string, avoiding bool) []string {
	order := slices.Clone(s.pool)
	s.shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	if avoiding && len(order) > 1 && order[0] == avoid {
		order[0], order[len(order)-1] = order[len(order)-1], order[0]
	}
	return order
}
