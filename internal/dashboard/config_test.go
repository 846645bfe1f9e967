package dashboard_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/flowdeck/internal/dashboard"
)

func TestConfig_Finalize(t *testing.T) {
	tests := []struct {
		name      string
		cfg       dashboard.Config
		delay     time.Duration
		freshness time.Duration
		wantErr   bool
	}{
		{name: "defaults", delay: 500 * time.Millisecond, freshness: 30 * time.Second},
		{name: "explicit", cfg: dashboard.Config{SearchDelay: "250ms", Freshness: "0s"}, delay: 250 * time.Millisecond},
		{name: "bad delay", cfg: dashboard.Config{SearchDelay: "soon"}, wantErr: true},
		{name: "negative delay", cfg: dashboard.Config{SearchDelay: "-1s"}, wantErr: true},
		{name: "bad freshness", cfg: dashboard.Config{Freshness: "forever"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := tt.cfg.SearchDelayDuration(); got != tt.delay {
				t.Errorf("SearchDelayDuration() = %v, want %v", got, tt.delay)
			}
			if got := tt.cfg.FreshnessDuration(); got != tt.freshness {
				t.Errorf("FreshnessDuration() = %v, want %v", got, tt.freshness)
			}
		})
	}
}

func TestConfig_Env(t *testing.T) {
	t.Setenv("TEST_SEARCH_DELAY", "1s")

	cfg := dashboard.Config{SearchDelay: "100ms"}
	if err := cfg.Finalize(&dashboard.ConfigEnv{SearchDelay: "TEST_SEARCH_DELAY"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.SearchDelayDuration() != time.Second {
		t.Errorf("SearchDelay = %v, want env override", cfg.SearchDelay)
	}
}

func TestConfig_Merge(t *testing.T) {
	base := dashboard.Config{SearchDelay: "500ms", Freshness: "30s"}
	base.Merge(&dashboard.Config{Freshness: "5s"})

	if base.SearchDelay != "500ms" || base.Freshness != "5s" {
		t.Errorf("Merge() = %+v", base)
	}
}
