package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetenvDefaultsWhenUnset(t *testing.T) {
	t.Setenv("ORION_TEST_KEY", "")
	if got := getenv("ORION_TEST_KEY", "fallback"); got != "fallback" {
		t.Errorf("getenv = %q, want fallback", got)
	}
}

func TestGetenvReturnsSetValue(t *testing.T) {
	t.Setenv("ORION_TEST_KEY", "custom")
	if got := getenv("ORION_TEST_KEY", "fallback"); got != "custom" {
		t.Errorf("getenv = %q, want custom", got)
	}
}

func TestGetenvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ORION_TEST_INT", "not-a-number")
	if got := getenvInt("ORION_TEST_INT", 7); got != 7 {
		t.Errorf("getenvInt = %d, want fallback 7", got)
	}
}

func TestGetenvIntParsesValue(t *testing.T) {
	t.Setenv("ORION_TEST_INT", "12")
	if got := getenvInt("ORION_TEST_INT", 7); got != 12 {
		t.Errorf("getenvInt = %d, want 12", got)
	}
}

func TestGetenvFloatParsesValue(t *testing.T) {
	t.Setenv("ORION_TEST_FLOAT", "2.5")
	if got := getenvFloat("ORION_TEST_FLOAT", 1.0); got != 2.5 {
		t.Errorf("getenvFloat = %v, want 2.5", got)
	}
}

func TestConfigDerivedDirs(t *testing.T) {
	c := &Config{DataDir: "/data"}
	if got := c.MetadataDir(); got != filepath.Join("/data", "metadata") {
		t.Errorf("MetadataDir = %q", got)
	}
	if got := c.FilingsDir(); got != filepath.Join("/data", "filings") {
		t.Errorf("FilingsDir = %q", got)
	}
	if got := c.QueueDir(); got != filepath.Join("/data", "queue") {
		t.Errorf("QueueDir = %q", got)
	}
}

func TestLoadProfileMissingFileIsNotAnError(t *testing.T) {
	p, err := LoadProfile(filepath.Join(t.TempDir(), "missing.hjson"))
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.QueueDir != "" || p.DefaultWorkers != 0 {
		t.Errorf("expected a zero-value profile, got %+v", p)
	}
}

func TestLoadProfileParsesHjson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.hjson")
	content := `{
  # operator notes are allowed in hjson
  queue_dir: /data/queue
  default_workers: 8
  rate_limit_rps: 5.5
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.QueueDir != "/data/queue" || p.DefaultWorkers != 8 || p.RateLimitRPS != 5.5 {
		t.Errorf("parsed profile = %+v", p)
	}
}
