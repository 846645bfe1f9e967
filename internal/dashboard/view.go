package dashboard

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/flowdeck/internal/workflows"
	"github.com/JaimeStill/flowdeck/pkg/listview"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
)

// State is the list view state for workflows.
type State = listview.State[workflows.Workflow]

// View is one workflow list screen. Page size is fixed by configuration.
type View struct {
	Store     *listview.Store
	Search    *listview.SearchInput
	List      *listview.Accessor[workflows.Workflow]
	Mutations *Coordinator
	Cache     *listview.Cache
}

// NewView wires a view over backend. loc is the shareable location the
// parameters are mirrored into; schedule may be nil to use real timers.
func NewView(
	backend Backend,
	loc listview.Location,
	notifier Notifier,
	cfg Config,
	page pagination.Config,
	schedule listview.Scheduler,
	logger *slog.Logger,
) *View {
	cache := listview.NewCache(listview.CacheConfig{Freshness: cfg.FreshnessDuration()})
	store := listview.NewStore(loc, listview.DefaultParams(page))

	return &View{
		Store:  store,
		Search: listview.NewSearchInput(store, listview.SearchConfig{Delay: cfg.SearchDelayDuration(), Schedule: schedule}),
		List: listview.NewAccessor(store, cache, ListFetcher(backend), listview.AccessorConfig{
			Tag:        TagList,
			Pagination: page,
		}, logger),
		Mutations: NewCoordinator(backend, cache, notifier, logger),
		Cache:     cache,
	}
}

// Load fetches the current page.
func (v *View) Load(ctx context.Context) State {
	return v.List.Load(ctx)
}

// Refresh refetches the current page regardless of freshness.
func (v *View) Refresh(ctx context.Context) State {
	return v.List.Refresh(ctx)
}

// Start reloads in the background on parameter changes and list invalidation.
func (v *View) Start(ctx context.Context) {
	v.List.Start(ctx)
}

// Close stops background reloads and disposes the store and search input.
func (v *View) Close() {
	v.List.Stop()
	v.Store.Close()
}

// NextPage advances when the current result has a next page.
func (v *View) NextPage() bool {
	s := v.List.State()
	if s.Status != listview.StatusSuccess || !s.Data.HasNextPage {
		return false
	}
	v.Store.Set(listview.Page(s.Params.Page + 1))
	return true
}

// PrevPage steps back when the current result has a previous page.
func (v *View) PrevPage() bool {
	s := v.List.State()
	if s.Status != listview.StatusSuccess || !s.Data.HasPreviousPage {
		return false
	}
	v.Store.Set(listview.Page(s.Params.Page - 1))
	return true
}

// CreateFromEmpty is the empty-state create action. On success it clears the
// search and returns to page 1 so the new workflow is visible.
func (v *View) CreateFromEmpty(ctx context.Context, name string) (*workflows.Workflow, error) {
	w, err := v.Mutations.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	v.Search.Type("")
	v.Store.Set(listview.Patch{Page: ptr(1), Search: ptr("")})
	return w, nil
}

func ptr[T any](v T) *T {
	return &v
}
