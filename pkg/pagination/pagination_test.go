package pagination_test

import (
	"net/url"
	"testing"

	"github.com/JaimeStill/flowdeck/pkg/pagination"
)

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_PAGINATION_DEFAULT", "25")

	cfg := pagination.Config{}
	err := cfg.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGINATION_DEFAULT"})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.DefaultPageSize != 25 {
		t.Errorf("DefaultPageSize = %d, want 25", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}
}

func TestConfig_Finalize_DefaultExceedsMax(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 50, MaxPageSize: 10}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("Finalize() expected error when default exceeds max")
	}
}

func TestPageRequest_Normalize(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 10, MaxPageSize: 100}

	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"zero values", 0, 0, 1, 10},
		{"negative page", -3, 20, 1, 20},
		{"oversized", 2, 500, 2, 100},
		{"valid", 4, 25, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			req.Normalize(cfg)

			if req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", req.Page, tt.wantPage)
			}
			if req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 10, MaxPageSize: 100}
	values := url.Values{
		"page":      {"3"},
		"page_size": {"25"},
		"search":    {"demo"},
		"sort":      {"-CreatedAt"},
	}

	req := pagination.PageRequestFromQuery(values, cfg)

	if req.Page != 3 || req.PageSize != 25 {
		t.Errorf("page/size = %d/%d, want 3/25", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "demo" {
		t.Errorf("Search = %v, want demo", req.Search)
	}
	if len(req.Sort) != 1 || !req.Sort[0].Descending {
		t.Errorf("Sort = %v, want [-CreatedAt]", req.Sort)
	}
	if req.Offset() != 50 {
		t.Errorf("Offset() = %d, want 50", req.Offset())
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		page         int
		pageSize     int
		wantPages    int
		wantNext     bool
		wantPrevious bool
	}{
		{"empty", 0, 1, 25, 0, false, false},
		{"exact fit", 100, 1, 25, 4, true, false},
		{"remainder", 101, 1, 25, 5, true, false},
		{"last page", 101, 5, 25, 5, false, true},
		{"middle page", 101, 3, 25, 5, true, true},
		{"page past end", 10, 4, 10, 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult[int](nil, tt.total, tt.page, tt.pageSize)

			if result.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantPages)
			}
			if result.HasNextPage != tt.wantNext {
				t.Errorf("HasNextPage = %v, want %v", result.HasNextPage, tt.wantNext)
			}
			if result.HasPreviousPage != tt.wantPrevious {
				t.Errorf("HasPreviousPage = %v, want %v", result.HasPreviousPage, tt.wantPrevious)
			}
			if result.Items == nil {
				t.Error("Items = nil, want empty slice")
			}
		})
	}
}
