// Package app wires configuration, storage, and integrations into the
// salesintel CLI.
package app

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"salesintel/internal/analyze"
	"salesintel/internal/config"
	"salesintel/internal/integrations/fireflies"
	"salesintel/internal/integrations/llm"
	"salesintel/internal/integrations/slackdeal"
	"salesintel/internal/logger"
	"salesintel/internal/run"
	"salesintel/internal/storage/sqlite"
)

var version = "dev"

var configPath string

// deps is everything a command needs, built once per invocation.
type deps struct {
	cfg        config.Config
	log        *logger.Logger
	db         *sql.DB
	store      *sqlite.Store
	source     *fireflies.Client
	runner     *run.Runner
	slack      *slackdeal.Client
	summarizer *llm.Summarizer
}

func (d *deps) Close() {
	if d.db != nil {
		d.db.Close()
	}
}

func buildDeps() (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := logger.New()

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	store := sqlite.NewStore(db)

	httpClient := &http.Client{Timeout: cfg.ExternalHTTPTimeout()}
	source := fireflies.NewClient(cfg.FirefliesAPIKey, httpClient)

	analyzer := &analyze.Analyzer{HostIdentifiers: cfg.HostIdentifiers}
	runner := run.NewRunner(source, store, analyzer, log)
	runner.ExtraTitleMarkers = cfg.ExcludedTitleMarkers
	runner.ItemDelay = cfg.AnalysisDelay()

	var slackAPI *slack.Client
	if cfg.SlackConfigured() {
		slackAPI = slack.New(cfg.SlackBotToken)
	}
	slackClient := slackdeal.NewClient(slackAPI, cfg.DealsChannelID, cfg.ReportChannelID, log)

	return &deps{
		cfg:        cfg,
		log:        log,
		db:         db,
		store:      store,
		source:     source,
		runner:     runner,
		slack:      slackClient,
		summarizer: llm.NewSummarizer(cfg.AnthropicAPIKey, cfg.LLMModel),
	}, nil
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "salesintel",
		Short: "Rule-based insight extraction from sales call transcripts",
		Long: `salesintel pulls call transcripts from Fireflies, classifies prospect
pain points, done-for-you demand, objections, and language assets with
deterministic keyword rules, and aggregates the results into reports.`,
		Version:      version,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.yaml")

	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newWatchCommand())
	cmd.AddCommand(newStatusCommand())
	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := newRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}
