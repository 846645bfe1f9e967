package workflows

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/flowdeck/pkg/auth"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
	"github.com/google/uuid"
)

// Memory is an in-process System with the same ownership, ordering, and
// validation rules as the PostgreSQL repository. It backs handler and client
// tests and the server's ephemeral mode.
type Memory struct {
	mu         sync.Mutex
	items      map[uuid.UUID]Workflow
	pagination pagination.Config
	now        func() time.Time
}

func NewMemory(pagination pagination.Config) *Memory {
	return &Memory{
		items:      make(map[uuid.UUID]Workflow),
		pagination: pagination,
		now:        time.Now,
	}
}

func (m *Memory) List(_ context.Context, p auth.Principal, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Workflow], error) {
	page.Normalize(m.pagination)

	m.mu.Lock()
	matches := make([]Workflow, 0)
	for _, w := range m.items {
		if w.OwnerID != p.Subject || !filters.Matches(w) {
			continue
		}
		if page.Search != nil && !strings.Contains(strings.ToLower(w.Name), strings.ToLower(*page.Search)) {
			continue
		}
		matches = append(matches, w)
	}
	m.mu.Unlock()

	slices.SortFunc(matches, func(a, b Workflow) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID.String(), a.ID.String())
	})

	total := len(matches)
	start := min(page.Offset(), total)
	end := min(start+page.PageSize, total)

	result := pagination.NewPageResult(slices.Clone(matches[start:end]), total, page.Page, page.PageSize)
	return &result, nil
}

func (m *Memory) Find(_ context.Context, p auth.Principal, id uuid.UUID) (*Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.owned(p, id)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (m *Memory) Create(_ context.Context, p auth.Principal, cmd CreateCommand) (*Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tick()
	w := Workflow{
		ID:          uuid.New(),
		OwnerID:     p.Subject,
		Name:        cmd.Name,
		Description: cmd.Description,
		Status:      StatusInactive,
		Nodes:       emptyArray,
		Edges:       emptyArray,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.items[w.ID] = w
	return &w, nil
}

func (m *Memory) Update(_ context.Context, p auth.Principal, id uuid.UUID, cmd UpdateCommand) (*Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.owned(p, id)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		w.Name = *cmd.Name
	}
	if cmd.Description != nil {
		w.Description = cmd.Description
	}
	if cmd.Status != nil {
		w.Status = *cmd.Status
	}
	w.UpdatedAt = later(m.tick(), w.UpdatedAt)
	m.items[id] = w
	return &w, nil
}

func (m *Memory) Delete(_ context.Context, p auth.Principal, id uuid.UUID) (*Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.owned(p, id)
	if err != nil {
		return nil, err
	}
	delete(m.items, id)
	return &w, nil
}

func (m *Memory) SaveGraph(_ context.Context, p auth.Principal, id uuid.UUID, cmd GraphCommand) (*Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.owned(p, id)
	if err != nil {
		return nil, err
	}
	w.Nodes = cmd.Nodes
	w.Edges = cmd.Edges
	w.UpdatedAt = later(m.tick(), w.UpdatedAt)
	m.items[id] = w
	return &w, nil
}

func (m *Memory) Duplicate(_ context.Context, p auth.Principal, id uuid.UUID, cmd DuplicateCommand) (*Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	src, err := m.owned(p, id)
	if err != nil {
		return nil, err
	}

	now := m.tick()
	w := src
	w.ID = uuid.New()
	w.Name = cmd.Name
	w.Status = StatusInactive
	w.CreatedAt = now
	w.UpdatedAt = now
	m.items[w.ID] = w
	return &w, nil
}

func (m *Memory) owned(p auth.Principal, id uuid.UUID) (Workflow, error) {
	w, ok := m.items[id]
	if !ok || w.OwnerID != p.Subject {
		return Workflow{}, ErrNotFound
	}
	return w, nil
}

// tick returns the current time, nudged forward so creation order is strict
// even when the clock does not advance between calls.
func (m *Memory) tick() time.Time {
	now := m.now().UTC()
	for _, w := range m.items {
		if !now.After(w.CreatedAt) {
			now = w.CreatedAt.Add(time.Microsecond)
		}
	}
	return now
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
