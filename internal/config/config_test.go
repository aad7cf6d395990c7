package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ELECTION_URL", "")
	t.Setenv("REFRESH_INTERVAL_SEC", "not-a-number")
	t.Setenv("AUTO_REFRESH", "on")
	t.Setenv("NEAR_CLOSING_RATIO", "0.25")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ElectionURL != "" {
		t.Fatalf("explicit empty env should win, got %q", cfg.ElectionURL)
	}
	if cfg.RefreshIntervalSec != 60 {
		t.Fatalf("interval=%d", cfg.RefreshIntervalSec)
	}
	if !cfg.AutoRefresh {
		t.Fatalf("auto refresh should be on")
	}
	if cfg.NearClosingRatio != 0.25 {
		t.Fatalf("ratio=%v", cfg.NearClosingRatio)
	}
	if cfg.InProgressMarker != "진행중" {
		t.Fatalf("marker=%q", cfg.InProgressMarker)
	}
	if err := cfg.Require("ELECTION_URL", cfg.ElectionURL); err == nil {
		t.Fatalf("expected missing env error")
	}
}
