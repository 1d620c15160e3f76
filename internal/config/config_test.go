package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.MaxTracks != 6 {
		t.Errorf("MaxTracks = %d, want 6", cfg.MaxTracks)
	}
	if len(cfg.Renditions) != 2 {
		t.Errorf("renditions = %d, want 2", len(cfg.Renditions))
	}
}

func TestSampleConfigParsesToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bpm.toml")
	if err := os.WriteFile(path, []byte(Sample()), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.MaxTracks != want.MaxTracks || cfg.Frames != want.Frames || cfg.ReportInterval != want.ReportInterval {
		t.Errorf("sample config diverges from defaults: %+v", cfg)
	}
	if len(cfg.Renditions) != len(want.Renditions) {
		t.Fatalf("renditions = %d, want %d", len(cfg.Renditions), len(want.Renditions))
	}
	if cfg.Renditions[0].Fingerprint != want.Renditions[0].Fingerprint {
		t.Errorf("primary rendition = %q", cfg.Renditions[0].Fingerprint)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bpm.toml")
	content := `
max_tracks = 3
frames = 30

[[renditions]]
fingerprint = "av1_2160p_60fps"
every_nth = 1
lag_every = 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxTracks != 3 || cfg.Frames != 30 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if len(cfg.Renditions) != 1 || cfg.Renditions[0].LagEvery != 10 {
		t.Errorf("renditions = %+v", cfg.Renditions)
	}
	// Untouched fields keep defaults.
	if cfg.KeyframeInterval != Default().KeyframeInterval {
		t.Errorf("KeyframeInterval = %d", cfg.KeyframeInterval)
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"no renditions", func(c *Config) { c.Renditions = nil }, "at least one rendition"},
		{"too many renditions", func(c *Config) { c.MaxTracks = 1 }, "max_tracks"},
		{"duplicate fingerprint", func(c *Config) { c.Renditions[1].Fingerprint = c.Renditions[0].Fingerprint }, "duplicate"},
		{"empty fingerprint", func(c *Config) { c.Renditions[0].Fingerprint = " " }, "fingerprint must be set"},
		{"bad cadence", func(c *Config) { c.Renditions[0].EveryNth = 0 }, "every_nth"},
		{"negative fault rate", func(c *Config) { c.Renditions[0].DropEvery = -1 }, "must not be negative"},
		{"zero frames", func(c *Config) { c.Frames = 0 }, "frames"},
		{"zero report interval", func(c *Config) { c.ReportInterval = 0 }, "report_interval"},
		{"capture without path", func(c *Config) { c.Capture.Enabled = true; c.Capture.Path = "" }, "capture.path"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bpm.toml")

	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}
}
