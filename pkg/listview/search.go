package listview

import (
	"sync"
	"time"
)

// DefaultSearchDelay is the quiescence window before typed text is promoted.
const DefaultSearchDelay = 500 * time.Millisecond

// Timer is the cancellable handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SearchConfig configures a SearchInput. Zero values use DefaultSearchDelay and time.AfterFunc.
type SearchConfig struct {
	Delay    time.Duration
	Schedule Scheduler
}

// SearchInput buffers typed search text and promotes it into the store once
// input has been quiet for the configured delay. Clearing the text promotes
// immediately.
type SearchInput struct {
	store    *Store
	delay    time.Duration
	schedule Scheduler

	mu      sync.Mutex
	text    string
	last    string
	timer   Timer
	seq     uint64
	closed  bool
	unwatch func()
}

// NewSearchInput attaches a search input to store. Closing the store closes the input.
func NewSearchInput(store *Store, cfg SearchConfig) *SearchInput {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultSearchDelay
	}
	if cfg.Schedule == nil {
		cfg.Schedule = afterFunc
	}

	s := &SearchInput{
		store:    store,
		delay:    cfg.Delay,
		schedule: cfg.Schedule,
		text:     store.Read().Search,
	}
	s.last = s.text
	s.unwatch = store.Subscribe(s.sync)
	store.OnClose(s.Close)
	return s
}

// Type replaces the buffered text and restarts the quiescence window.
func (s *SearchInput) Type(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.text = text
	s.cancel()
	s.seq++

	current := s.store.Read().Search
	switch {
	case text == current:
		s.mu.Unlock()
	case text == "":
		s.mu.Unlock()
		s.promote(text)
	default:
		seq := s.seq
		s.timer = s.schedule(s.delay, func() { s.fire(seq) })
		s.mu.Unlock()
	}
}

// Text returns the buffered text.
func (s *SearchInput) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Pending reports whether a promotion is scheduled.
func (s *SearchInput) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Close cancels any pending promotion. No promotion happens after Close.
func (s *SearchInput) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	unwatch := s.unwatch
	s.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}
}

func (s *SearchInput) fire(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	text := s.text
	s.mu.Unlock()

	s.promote(text)
}

func (s *SearchInput) promote(text string) {
	s.store.Set(Search(text))
}

// sync adopts a search value changed outside this input and drops any pending promotion.
func (s *SearchInput) sync(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || p.Search == s.last {
		return
	}
	s.last = p.Search
	if p.Search != s.text {
		s.cancel()
		s.seq++
		s.text = p.Search
	}
}

func (s *SearchInput) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
