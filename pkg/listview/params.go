// Package listview is the client-side core of a paginated, searchable list:
// a parameter store mirrored into a navigable location, a cache-backed data
// accessor that discards stale responses, and a debounced search input.
package listview

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/flowdeck/pkg/pagination"
)

// Location keys used to mirror Params.
const (
	KeyPage     = "page"
	KeyPageSize = "page_size"
	KeySearch   = "search"
)

// Params is the list query tuple. It is comparable, so == is deep equality.
type Params struct {
	Page     int
	PageSize int
	Search   string
}

// DefaultParams returns page 1 with the configured default page size and no filter.
func DefaultParams(cfg pagination.Config) Params {
	return Params{Page: 1, PageSize: cfg.DefaultPageSize}
}

// Key is a stable serialization used as a cache key.
func (p Params) Key() string {
	return KeyPage + "=" + strconv.Itoa(p.Page) +
		"&" + KeyPageSize + "=" + strconv.Itoa(p.PageSize) +
		"&" + KeySearch + "=" + url.QueryEscape(p.Search)
}

// Normalize clamps page and page size into the range accepted by the backend.
func (p Params) Normalize(cfg pagination.Config) Params {
	req := p.Request()
	req.Normalize(cfg)
	p.Page = req.Page
	p.PageSize = req.PageSize
	return p
}

// Request converts the params into a backend page request.
func (p Params) Request() pagination.PageRequest {
	req := pagination.PageRequest{
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	if p.Search != "" {
		s := p.Search
		req.Search = &s
	}
	return req
}

// Patch is a partial update to Params. Nil fields are retained.
type Patch struct {
	Page     *int
	PageSize *int
	Search   *string
}

// Page returns a patch that moves to page n.
func Page(n int) Patch {
	return Patch{Page: &n}
}

// PageSize returns a patch that changes the page size.
func PageSize(n int) Patch {
	return Patch{PageSize: &n}
}

// Search returns a patch that changes the search filter.
func Search(q string) Patch {
	return Patch{Search: &q}
}

// apply merges the patch into p. A changed search or page size forces page 1.
func (pt Patch) apply(p Params) Params {
	next := p
	if pt.Page != nil {
		next.Page = *pt.Page
	}
	if pt.PageSize != nil {
		next.PageSize = *pt.PageSize
	}
	if pt.Search != nil {
		next.Search = *pt.Search
	}
	if next.Search != p.Search || next.PageSize != p.PageSize {
		next.Page = 1
	}
	return next
}

func encode(p, defaults Params) map[string]string {
	values := make(map[string]string, 3)
	if p.Page != defaults.Page {
		values[KeyPage] = strconv.Itoa(p.Page)
	}
	if p.PageSize != defaults.PageSize {
		values[KeyPageSize] = strconv.Itoa(p.PageSize)
	}
	if p.Search != defaults.Search {
		values[KeySearch] = p.Search
	}
	return values
}

func decode(values map[string]string, defaults Params) Params {
	p := defaults
	if n, err := strconv.Atoi(values[KeyPage]); err == nil {
		p.Page = n
	}
	if n, err := strconv.Atoi(values[KeyPageSize]); err == nil {
		p.PageSize = n
	}
	if s, ok := values[KeySearch]; ok {
		p.Search = s
	}
	return p
}
