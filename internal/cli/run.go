package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/praeto/tendertrack/internal/model"
)

var (
	runPolicy      string
	runSources     []string
	runConcurrency int
	runTimeout     time.Duration
	runJSONPath    string
	runDryRun      bool
	runNoCache     bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape all portals once, persist new tenders and send alerts",
	Long: `Run executes one complete ingestion cycle:
- Scrape every enabled portal
- Normalize, categorize and deduplicate against history
- Filter through the active policy (broad or narrow)
- Persist new tenders and alert on the noteworthy ones

Example:
  tendertrack run
  tendertrack run --policy narrow --sources etenders,transnet
  tendertrack run --dry-run --json report.json`,
	Args: cobra.NoArgs,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runPolicy, "policy", "", "filter policy: broad or narrow (default from config)")
	runCmd.Flags().StringSliceVar(&runSources, "sources", nil, "portals to scrape (default from config)")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "concurrent portal scrapes (default from config)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "overall run timeout")
	runCmd.Flags().StringVar(&runJSONPath, "json", "", "write the run report as JSON to this path")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "scrape and filter but persist nothing and send no alerts")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "disable the page cache (force fresh fetches)")
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cfg)

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	rt, err := buildRuntime(ctx, cfg, log, runDryRun, runSources)
	if err != nil {
		return err
	}
	defer rt.close()

	report := rt.orch.Run(ctx)
	return renderReport(cfg, report)
}

func applyRunFlags(cfg *model.Config) {
	if runPolicy != "" {
		cfg.Policy.Mode = runPolicy
	}
	if runConcurrency > 0 {
		cfg.Concurrency.Workers = runConcurrency
	}
	if runNoCache {
		cfg.Cache.Enabled = false
	}
	if runJSONPath != "" {
		cfg.Output.JSONPath = runJSONPath
	}
}

func renderReport(cfg *model.Config, report *model.RunReport) error {
	renderer := newRenderer(cfg)
	if cfg.Output.JSONPath != "" {
		if err := renderer.RenderJSON(report, cfg.Output.JSONPath); err != nil {
			return err
		}
	}
	renderer.RenderSummary(report)

	if report.PersistError != "" {
		return fmt.Errorf("run failed: %s", report.PersistError)
	}
	return nil
}
