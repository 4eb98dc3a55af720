package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kvit-s/kvit-patch/internal/patch"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Matching.MaxScanCost != patch.DefaultMaxScanCost {
		t.Errorf("MaxScanCost = %d, want default", cfg.Matching.MaxScanCost)
	}
	opts := cfg.MatcherOptions()
	if !opts.StripLeading || !opts.StripTrailing || !opts.NormalizeIndent {
		t.Errorf("default options = %+v, want stripping and indent normalization on", opts)
	}
	if opts.DropBlankLines {
		t.Error("DropBlankLines should default off")
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeConfig(t, `
matching:
  max_scan_cost: 1000
normalize:
  strip_leading: false
  drop_blank_lines: true
log:
  path: /tmp/patch.log
  development: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Matching.MaxScanCost != 1000 {
		t.Errorf("MaxScanCost = %d, want 1000", cfg.Matching.MaxScanCost)
	}
	opts := cfg.MatcherOptions()
	if opts.StripLeading {
		t.Error("StripLeading should be off")
	}
	if !opts.StripTrailing || !opts.NormalizeIndent {
		t.Error("unset normalize fields should keep their defaults")
	}
	if !opts.DropBlankLines {
		t.Error("DropBlankLines should be on")
	}
	if cfg.Log.Path != "/tmp/patch.log" || !cfg.Log.Development {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_RejectsNegativeScanCost(t *testing.T) {
	path := writeConfig(t, "matching:\n  max_scan_cost: -1\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "max_scan_cost") {
		t.Errorf("error = %v", err)
	}
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "matching: [not a map")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("error = %v", err)
	}
}
