package listview

import (
	"slices"
	"sync"
)

// Store is the single source of truth for the list parameters of one view.
// Every change is mirrored into its Location with default values omitted.
type Store struct {
	mu       sync.Mutex
	loc      Location
	defaults Params
	params   Params
	subs     map[int]func(Params)
	nextSub  int
	closers  []func()
	closed   bool
}

// NewStore hydrates the store from loc. Values that fail to parse fall back to defaults.
func NewStore(loc Location, defaults Params) *Store {
	if loc == nil {
		loc = NewMemoryLocation(nil)
	}
	return &Store{
		loc:      loc,
		defaults: defaults,
		params:   decode(loc.Get(), defaults),
		subs:     make(map[int]func(Params)),
	}
}

// Read returns the current parameters.
func (s *Store) Read() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Location returns the location the parameters are mirrored into.
func (s *Store) Location() Location {
	return s.loc
}

// Defaults returns the parameters the store falls back to.
func (s *Store) Defaults() Params {
	return s.defaults
}

// Set merges the patch and returns the resulting parameters.
// Subscribers are notified only when the value actually changed.
func (s *Store) Set(patch Patch) Params {
	s.mu.Lock()
	if s.closed {
		p := s.params
		s.mu.Unlock()
		return p
	}

	prev := s.params
	next := patch.apply(prev)
	if next == prev {
		s.mu.Unlock()
		return next
	}

	s.params = next
	s.writeLocation(next)
	subs := s.snapshot()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Reset restores the defaults.
func (s *Store) Reset() Params {
	d := s.defaults
	return s.Set(Patch{Page: &d.Page, PageSize: &d.PageSize, Search: &d.Search})
}

// Subscribe registers fn for parameter changes and returns its cancel func.
func (s *Store) Subscribe(fn func(Params)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// OnClose registers fn to run when the store is closed.
func (s *Store) OnClose(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closers = append(s.closers, fn)
}

// Close drops all subscribers and runs close hooks. Later Sets are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	clear(s.subs)
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	for _, fn := range slices.Backward(closers) {
		fn()
	}
}

// writeLocation replaces the managed keys and preserves any others.
func (s *Store) writeLocation(p Params) {
	values := s.loc.Get()
	if values == nil {
		values = make(map[string]string)
	}
	delete(values, KeyPage)
	delete(values, KeyPageSize)
	delete(values, KeySearch)
	for k, v := range encode(p, s.defaults) {
		values[k] = v
	}
	s.loc.Set(values)
}

func (s *Store) snapshot() []func(Params) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	subs := make([]func(Params), len(ids))
	for i, id := range ids {
		subs[i] = s.subs[id]
	}
	return subs
}
