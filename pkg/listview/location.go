package listview

import (
	"maps"
	"net/url"
	"sync"
)

// Location is the navigable, shareable record the store mirrors into.
type Location interface {
	Get() map[string]string
	Set(values map[string]string)
}

// MemoryLocation keeps the record in memory.
type MemoryLocation struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

func NewMemoryLocation(initial map[string]string) *MemoryLocation {
	return &MemoryLocation{values: maps.Clone(initial)}
}

func (l *MemoryLocation) Get() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.values)
}

func (l *MemoryLocation) Set(values map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = maps.Clone(values)
	l.writes++
}

// Writes reports how many times Set was called.
func (l *MemoryLocation) Writes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes
}

// URLLocation binds the record to the query string of a URL.
// Only the first value of a repeated key is visible.
type URLLocation struct {
	mu sync.Mutex
	u  url.URL
}

func NewURLLocation(raw string) (*URLLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &URLLocation{u: *u}, nil
}

func (l *URLLocation) Get() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()

	q := l.u.Query()
	values := make(map[string]string, len(q))
	for k := range q {
		values[k] = q.Get(k)
	}
	return values
}

func (l *URLLocation) Set(values map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	q := url.Values{}
	for k, v := range values {
		q.Set(k, v)
	}
	l.u.RawQuery = q.Encode()
}

// String returns the shareable URL.
func (l *URLLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.u.String()
}
