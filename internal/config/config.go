// Package config loads settings from config.yaml with environment
// overrides. A .env file is honored for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultExternalHTTPTimeout = 90 * time.Second

type Config struct {
	FirefliesAPIKey string `yaml:"fireflies_api_key"`

	DBPath    string `yaml:"db_path"`
	ExportDir string `yaml:"export_dir"`

	// HostIdentifiers are names or email fragments that mark the sales
	// side of a call; matching speakers are excluded from prospect
	// analysis.
	HostIdentifiers []string `yaml:"host_identifiers"`
	// ExcludedTitleMarkers extends the built-in internal-meeting filter.
	ExcludedTitleMarkers []string `yaml:"excluded_title_markers"`

	// AnalysisDelayMs is the pause between transcripts in a run.
	AnalysisDelayMs int `yaml:"analysis_delay_ms"`
	// AnalysisSchedule is a 5-field cron expression; empty disables
	// scheduled runs.
	AnalysisSchedule string `yaml:"analysis_schedule"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	DealsChannelID  string `yaml:"deals_channel_id"`
	ReportChannelID string `yaml:"report_channel_id"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`

	CompanyName string `yaml:"company_name"`
	Timezone    string `yaml:"timezone"`

	ExternalHTTPTimeoutSeconds int `yaml:"external_http_timeout_seconds"`

	// Location is resolved from Timezone during Load.
	Location *time.Location `yaml:"-"`
}

// Load reads the YAML file at path (falling back to config.yaml, then
// CONFIG_PATH), applies env overrides and defaults, and validates. A
// missing file is fine as long as the environment supplies the required
// values.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path == "" {
		path = "config.yaml"
		if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
			path = envPath
		}
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	envOverride(&cfg.FirefliesAPIKey, "FIREFLIES_API_KEY")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ExportDir, "EXPORT_DIR")
	envOverride(&cfg.AnalysisSchedule, "ANALYSIS_SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.DealsChannelID, "DEALS_CHANNEL_ID")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.CompanyName, "COMPANY_NAME")
	envOverride(&cfg.Timezone, "TIMEZONE")
	if err := envOverrideInt(&cfg.AnalysisDelayMs, "ANALYSIS_DELAY_MS"); err != nil {
		return Config{}, err
	}
	if err := envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS"); err != nil {
		return Config{}, err
	}
	envOverrideList(&cfg.HostIdentifiers, "HOST_IDENTIFIERS")
	envOverrideList(&cfg.ExcludedTitleMarkers, "EXCLUDED_TITLE_MARKERS")

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DBPath == "" {
		cfg.DBPath = "./salesintel.db"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "./exports"
	}
	if cfg.AnalysisDelayMs == 0 {
		cfg.AnalysisDelayMs = 500
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = int(defaultExternalHTTPTimeout / time.Second)
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
}

func validate(cfg *Config) error {
	if cfg.FirefliesAPIKey == "" {
		return fmt.Errorf("required config 'fireflies_api_key' is not set (via config.yaml or env var)")
	}
	if cfg.AnalysisDelayMs < 0 {
		return fmt.Errorf("invalid analysis_delay_ms '%d': must be >= 0", cfg.AnalysisDelayMs)
	}
	if cfg.ExternalHTTPTimeoutSeconds < 1 {
		return fmt.Errorf("invalid external_http_timeout_seconds '%d': must be >= 1", cfg.ExternalHTTPTimeoutSeconds)
	}
	if (cfg.DealsChannelID != "" || cfg.ReportChannelID != "") && cfg.SlackBotToken == "" {
		return fmt.Errorf("slack_bot_token is required when a Slack channel is configured")
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w", cfg.Timezone, err)
		}
		cfg.Location = loc
	}
	return nil
}

// AnalysisDelay is AnalysisDelayMs as a duration.
func (c Config) AnalysisDelay() time.Duration {
	return time.Duration(c.AnalysisDelayMs) * time.Millisecond
}

// ExternalHTTPTimeout bounds every outbound HTTP request.
func (c Config) ExternalHTTPTimeout() time.Duration {
	return time.Duration(c.ExternalHTTPTimeoutSeconds) * time.Second
}

// SlackConfigured reports whether the Slack integration can be used.
func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != ""
}

// LLMConfigured reports whether executive summaries can be generated.
func (c Config) LLMConfigured() bool {
	return c.AnthropicAPIKey != ""
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}

func envOverrideList(field *[]string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		var items []string
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*field = items
	}
}
