package listview_test

import (
	"math/rand/v2"
	"testing"

	"github.com/JaimeStill/flowdeck/pkg/listview"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
)

var defaults = listview.Params{Page: 1, PageSize: 10}

func TestParams_Key(t *testing.T) {
	p := listview.Params{Page: 2, PageSize: 25, Search: "a&b c"}
	want := "page=2&page_size=25&search=a%26b+c"
	if got := p.Key(); got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}

	if (listview.Params{Page: 1, PageSize: 10}) != (listview.Params{Page: 1, PageSize: 10}) {
		t.Error("equal params should compare equal")
	}
}

func TestParams_Normalize(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 10, MaxPageSize: 50}

	tests := []struct {
		name string
		in   listview.Params
		want listview.Params
	}{
		{"valid", listview.Params{Page: 3, PageSize: 25}, listview.Params{Page: 3, PageSize: 25}},
		{"zero page", listview.Params{Page: 0, PageSize: 25}, listview.Params{Page: 1, PageSize: 25}},
		{"zero size", listview.Params{Page: 2}, listview.Params{Page: 2, PageSize: 10}},
		{"oversize", listview.Params{Page: 1, PageSize: 500, Search: "x"}, listview.Params{Page: 1, PageSize: 50, Search: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(cfg); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewStore_Hydrates(t *testing.T) {
	tests := []struct {
		name string
		loc  map[string]string
		want listview.Params
	}{
		{"empty", nil, defaults},
		{"full", map[string]string{"page": "3", "page_size": "25", "search": "demo"}, listview.Params{Page: 3, PageSize: 25, Search: "demo"}},
		{"bad ints", map[string]string{"page": "x", "page_size": "", "search": "q"}, listview.Params{Page: 1, PageSize: 10, Search: "q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := listview.NewStore(listview.NewMemoryLocation(tt.loc), defaults)
			if got := s.Read(); got != tt.want {
				t.Errorf("Read() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStore_Set(t *testing.T) {
	tests := []struct {
		name  string
		start listview.Params
		patch listview.Patch
		want  listview.Params
	}{
		{"page only", defaults, listview.Page(4), listview.Params{Page: 4, PageSize: 10}},
		{"search resets page", listview.Params{Page: 4, PageSize: 10}, listview.Search("x"), listview.Params{Page: 1, PageSize: 10, Search: "x"}},
		{"page size resets page", listview.Params{Page: 4, PageSize: 10}, listview.PageSize(25), listview.Params{Page: 1, PageSize: 25}},
		{
			"reset wins over supplied page",
			listview.Params{Page: 4, PageSize: 10},
			listview.Patch{Page: ptr(7), Search: ptr("x")},
			listview.Params{Page: 1, PageSize: 10, Search: "x"},
		},
		{"same search keeps page", listview.Params{Page: 4, PageSize: 10, Search: "x"}, listview.Search("x"), listview.Params{Page: 4, PageSize: 10, Search: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := listview.NewStore(nil, defaults)
			s.Set(listview.Patch{Page: ptr(tt.start.Page), PageSize: ptr(tt.start.PageSize), Search: ptr(tt.start.Search)})
			s.Set(listview.Page(tt.start.Page))

			if got := s.Set(tt.patch); got != tt.want {
				t.Errorf("Set() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStore_FilterResetInvariant(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	s := listview.NewStore(nil, defaults)

	searches := []string{"", "a", "ab", "demo"}
	sizes := []int{10, 25, 50}

	for i := range 1000 {
		var patch listview.Patch
		if r.IntN(2) == 0 {
			patch.Page = ptr(r.IntN(20) + 1)
		}
		if r.IntN(3) == 0 {
			patch.Search = ptr(searches[r.IntN(len(searches))])
		}
		if r.IntN(4) == 0 {
			patch.PageSize = ptr(sizes[r.IntN(len(sizes))])
		}

		prev := s.Read()
		got := s.Set(patch)

		if (got.Search != prev.Search || got.PageSize != prev.PageSize) && got.Page != 1 {
			t.Fatalf("step %d: filter changed %+v -> %+v but page = %d", i, prev, got, got.Page)
		}
	}
}

func TestStore_MirrorsLocation(t *testing.T) {
	loc := listview.NewMemoryLocation(map[string]string{"tab": "all"})
	s := listview.NewStore(loc, defaults)

	s.Set(listview.Search("demo"))
	s.Set(listview.Page(3))

	got := loc.Get()
	want := map[string]string{"tab": "all", "page": "3", "search": "demo"}
	if len(got) != len(want) {
		t.Fatalf("location = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("location[%q] = %q, want %q", k, got[k], v)
		}
	}

	s.Set(listview.Search(""))
	got = loc.Get()
	if _, ok := got["page"]; ok {
		t.Errorf("default page should be omitted, got %v", got)
	}
	if _, ok := got["search"]; ok {
		t.Errorf("default search should be omitted, got %v", got)
	}

	reloaded := listview.NewStore(listview.NewMemoryLocation(map[string]string{"page": "3", "search": "demo"}), defaults)
	if p := reloaded.Read(); p != (listview.Params{Page: 3, PageSize: 10, Search: "demo"}) {
		t.Errorf("reloaded Read() = %+v", p)
	}
}

func TestStore_Subscribe(t *testing.T) {
	loc := listview.NewMemoryLocation(nil)
	s := listview.NewStore(loc, defaults)

	var seen []listview.Params
	cancel := s.Subscribe(func(p listview.Params) { seen = append(seen, p) })

	s.Set(listview.Page(2))
	s.Set(listview.Page(2))
	s.Set(listview.Search("x"))

	if len(seen) != 2 {
		t.Fatalf("notifications = %d, want 2", len(seen))
	}
	if loc.Writes() != 2 {
		t.Errorf("location writes = %d, want 2", loc.Writes())
	}

	cancel()
	s.Set(listview.Page(5))
	if len(seen) != 2 {
		t.Errorf("notified after cancel")
	}
}

func TestStore_Close(t *testing.T) {
	s := listview.NewStore(nil, defaults)

	closed := 0
	s.OnClose(func() { closed++ })
	notified := false
	s.Subscribe(func(listview.Params) { notified = true })

	s.Close()
	s.Close()

	if closed != 1 {
		t.Errorf("close hooks ran %d times, want 1", closed)
	}
	if got := s.Set(listview.Page(9)); got.Page != 1 {
		t.Errorf("Set after Close changed page to %d", got.Page)
	}
	if notified {
		t.Error("subscriber notified after Close")
	}
}

func TestURLLocation(t *testing.T) {
	loc, err := listview.NewURLLocation("https://app.example.com/workflows?tab=mine&page=2")
	if err != nil {
		t.Fatalf("NewURLLocation() error = %v", err)
	}

	s := listview.NewStore(loc, defaults)
	if p := s.Read(); p.Page != 2 {
		t.Errorf("Page = %d, want 2", p.Page)
	}

	s.Set(listview.Search("a b"))

	want := "https://app.example.com/workflows?search=a+b&tab=mine"
	if got := loc.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func ptr[T any](v T) *T {
	return &v
}
