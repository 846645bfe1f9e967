package workflows

import (
	"net/url"

	"github.com/JaimeStill/flowdeck/pkg/query"
)

// Filters narrows a list beyond the free-text search.
type Filters struct {
	Status *Status
}

// FiltersFromQuery reads the status filter. Unknown statuses are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var status *Status
	if s := Status(values.Get("status")); s.Valid() {
		status = &s
	}
	return Filters{Status: status}
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Status == nil {
		return b
	}
	return b.WhereEquals("Status", string(*f.Status))
}

// Matches applies the filters to an in-memory record.
func (f Filters) Matches(w Workflow) bool {
	return f.Status == nil || w.Status == *f.Status
}
