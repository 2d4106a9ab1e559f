package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every env var Load consults so the host environment
// never leaks into assertions. t.Setenv restores the originals.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "FIREFLIES_API_KEY", "DB_PATH", "EXPORT_DIR",
		"ANALYSIS_SCHEDULE", "SLACK_BOT_TOKEN", "DEALS_CHANNEL_ID",
		"REPORT_CHANNEL_ID", "ANTHROPIC_API_KEY", "LLM_MODEL",
		"COMPANY_NAME", "TIMEZONE", "ANALYSIS_DELAY_MS",
		"EXTERNAL_HTTP_TIMEOUT_SECONDS", "HOST_IDENTIFIERS",
		"EXCLUDED_TITLE_MARKERS",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "fireflies_api_key: ff-key\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "./salesintel.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ExportDir != "./exports" {
		t.Errorf("ExportDir = %q", cfg.ExportDir)
	}
	if cfg.AnalysisDelayMs != 500 {
		t.Errorf("AnalysisDelayMs = %d", cfg.AnalysisDelayMs)
	}
	if cfg.AnalysisDelay() != 500*time.Millisecond {
		t.Errorf("AnalysisDelay() = %v", cfg.AnalysisDelay())
	}
	if cfg.Location == nil {
		t.Error("Location not resolved")
	}
	if cfg.SlackConfigured() || cfg.LLMConfigured() {
		t.Error("optional integrations should be off by default")
	}
}

func TestLoadYAMLValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
fireflies_api_key: ff-key
db_path: /tmp/calls.db
host_identifiers:
  - rep@ourco.com
  - Alex Rep
excluded_title_markers:
  - pipeline review
analysis_delay_ms: 100
analysis_schedule: "0 7 * * 1"
timezone: UTC
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/tmp/calls.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if len(cfg.HostIdentifiers) != 2 || cfg.HostIdentifiers[1] != "Alex Rep" {
		t.Errorf("HostIdentifiers = %v", cfg.HostIdentifiers)
	}
	if len(cfg.ExcludedTitleMarkers) != 1 {
		t.Errorf("ExcludedTitleMarkers = %v", cfg.ExcludedTitleMarkers)
	}
	if cfg.AnalysisSchedule != "0 7 * * 1" {
		t.Errorf("AnalysisSchedule = %q", cfg.AnalysisSchedule)
	}
	if cfg.Location != time.UTC {
		t.Errorf("Location = %v", cfg.Location)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "fireflies_api_key: from-yaml\ndb_path: /tmp/a.db\n")
	t.Setenv("FIREFLIES_API_KEY", "from-env")
	t.Setenv("DB_PATH", "/tmp/b.db")
	t.Setenv("HOST_IDENTIFIERS", "rep@ourco.com, Alex Rep ,")
	t.Setenv("ANALYSIS_DELAY_MS", "250")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FirefliesAPIKey != "from-env" {
		t.Errorf("FirefliesAPIKey = %q", cfg.FirefliesAPIKey)
	}
	if cfg.DBPath != "/tmp/b.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if len(cfg.HostIdentifiers) != 2 {
		t.Errorf("HostIdentifiers = %v", cfg.HostIdentifiers)
	}
	if cfg.AnalysisDelayMs != 250 {
		t.Errorf("AnalysisDelayMs = %d", cfg.AnalysisDelayMs)
	}
}

func TestLoadValidation(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		yaml string
	}{
		{"missing fireflies key", "db_path: /tmp/a.db\n"},
		{"slack channel without token", "fireflies_api_key: k\ndeals_channel_id: C123\n"},
		{"bad timezone", "fireflies_api_key: k\ntimezone: Mars/Olympus\n"},
		{"negative delay", "fireflies_api_key: k\nanalysis_delay_ms: -5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)
			if _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingFileEnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("FIREFLIES_API_KEY", "env-only")
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FirefliesAPIKey != "env-only" {
		t.Errorf("FirefliesAPIKey = %q", cfg.FirefliesAPIKey)
	}
}

func TestLoadBadIntEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "fireflies_api_key: k\n")
	t.Setenv("ANALYSIS_DELAY_MS", "soon")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for non-numeric env override")
	}
}
