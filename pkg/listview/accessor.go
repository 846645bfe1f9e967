package listview

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JaimeStill/flowdeck/pkg/pagination"
)

// Status is the accessor's view state.
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// State is one of loading, error (Err set), or success (Data set) for Params.
type State[T any] struct {
	Status Status
	Params Params
	Data   pagination.PageResult[T]
	Err    string
}

// Fetcher performs the remote list operation.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, p Params) (pagination.PageResult[T], error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc[T any] func(ctx context.Context, p Params) (pagination.PageResult[T], error)

func (f FetcherFunc[T]) Fetch(ctx context.Context, p Params) (pagination.PageResult[T], error) {
	return f(ctx, p)
}

// AccessorConfig names the cache tag for list pages and the page bounds used to
// normalize store values before fetching.
type AccessorConfig struct {
	Tag        string
	Pagination pagination.Config
}

// Accessor produces a page result for the store's current parameters.
// The most recently issued load wins: a response that arrives after a later
// load started is dropped, even when both loads asked for the same parameters.
type Accessor[T any] struct {
	store   *Store
	cache   *Cache
	fetcher Fetcher[T]
	cfg     AccessorConfig
	logger  *slog.Logger

	mu      sync.Mutex
	current Params
	issued  uint64
	state   State[T]
	subs    map[int]func(State[T])
	nextSub int
	stop    []func()
	wg      sync.WaitGroup
}

func NewAccessor[T any](store *Store, cache *Cache, fetcher Fetcher[T], cfg AccessorConfig, logger *slog.Logger) *Accessor[T] {
	return &Accessor[T]{
		store:   store,
		cache:   cache,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger.With("system", "listview", "tag", cfg.Tag),
		state:   State[T]{Status: StatusLoading},
		subs:    make(map[int]func(State[T])),
	}
}

// Key returns the cache key for p.
func (a *Accessor[T]) Key(p Params) string {
	return a.cfg.Tag + "?" + p.Normalize(a.cfg.Pagination).Key()
}

// State returns the latest applied state.
func (a *Accessor[T]) State() State[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Load fetches the store's current parameters, serving a fresh cache entry when present.
func (a *Accessor[T]) Load(ctx context.Context) State[T] {
	return a.load(ctx, false)
}

// Refresh refetches the current parameters, bypassing freshness.
func (a *Accessor[T]) Refresh(ctx context.Context) State[T] {
	return a.load(ctx, true)
}

// Subscribe registers fn for state changes and returns its cancel func.
func (a *Accessor[T]) Subscribe(fn func(State[T])) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subs, id)
	}
}

// Start reloads in the background whenever the store's parameters change or the
// list tag is invalidated. Stop ends the watch and waits for in-flight loads.
func (a *Accessor[T]) Start(ctx context.Context) {
	reload := func(force bool) {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.load(ctx, force)
		}()
	}

	unsubStore := a.store.Subscribe(func(p Params) {
		a.mu.Lock()
		changed := p.Normalize(a.cfg.Pagination) != a.current
		a.mu.Unlock()
		if changed {
			reload(false)
		}
	})
	unsubCache := a.cache.OnInvalidate(func(name string) {
		if name == a.cfg.Tag {
			reload(false)
		}
	})

	a.mu.Lock()
	a.stop = append(a.stop, unsubStore, unsubCache)
	a.mu.Unlock()
}

func (a *Accessor[T]) Stop() {
	a.mu.Lock()
	stop := a.stop
	a.stop = nil
	a.mu.Unlock()

	for _, fn := range stop {
		fn()
	}
	a.wg.Wait()
}

func (a *Accessor[T]) load(ctx context.Context, force bool) State[T] {
	p := a.store.Read().Normalize(a.cfg.Pagination)
	key := a.Key(p)

	a.mu.Lock()
	a.current = p
	a.issued++
	seq := a.issued
	var subs []func(State[T])
	if force || !a.cache.Fresh(key) {
		subs = a.apply(State[T]{Status: StatusLoading, Params: p})
	}
	a.mu.Unlock()
	notify(subs, State[T]{Status: StatusLoading, Params: p})

	data, err := Load(ctx, a.cache, key, []string{a.cfg.Tag}, force, func(ctx context.Context) (pagination.PageResult[T], error) {
		return a.fetcher.Fetch(ctx, p)
	})

	a.mu.Lock()
	if seq != a.issued {
		current, state := a.current, a.state
		a.mu.Unlock()
		a.logger.Debug("stale response discarded", "params", p.Key(), "current", current.Key(), "seq", seq)
		return state
	}

	next := State[T]{Status: StatusSuccess, Params: p, Data: data}
	if err != nil {
		next = State[T]{Status: StatusError, Params: p, Err: err.Error()}
	}
	subs = a.apply(next)
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn("list fetch failed", "params", p.Key(), "error", err)
	}
	notify(subs, next)
	return next
}

// apply records s and returns the subscribers to notify once a.mu is released.
func (a *Accessor[T]) apply(s State[T]) []func(State[T]) {
	a.state = s
	subs := make([]func(State[T]), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify[T any](subs []func(State[T]), s State[T]) {
	for _, fn := range subs {
		fn(s)
	}
}
