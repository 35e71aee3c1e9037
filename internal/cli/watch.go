package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchInterval time.Duration
	watchSpec     string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the ingestion cycle on a schedule until interrupted",
	Long: `Watch runs the same cycle as 'run' repeatedly. The first cycle
starts immediately; later ones follow the interval or cron expression.
Overlapping cycles are prevented: a tick that arrives while the
previous cycle is still scraping is skipped.

Example:
  tendertrack watch --interval 1h
  tendertrack watch --cron "0 7,13 * * MON-FRI"`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Hour, "time between cycles")
	watchCmd.Flags().StringVar(&watchSpec, "cron", "", "cron expression overriding --interval")
	watchCmd.Flags().StringVar(&runPolicy, "policy", "", "filter policy: broad or narrow (default from config)")
	watchCmd.Flags().StringSliceVar(&runSources, "sources", nil, "portals to scrape (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	busy := make(chan struct{}, 1)
	cycle := func() {
		select {
		case busy <- struct{}{}:
			defer func() { <-busy }()
		default:
			log.Warn("previous cycle still running, skipping tick")
			return
		}

		rt, err := buildRuntime(ctx, cfg, log, false, runSources)
		if err != nil {
			log.Error("cycle setup failed", zap.Error(err))
			return
		}
		defer rt.close()

		report := rt.orch.Run(ctx)
		if err := renderReport(cfg, report); err != nil {
			log.Error("cycle failed", zap.Error(err))
		}
	}

	spec := watchSpec
	if spec == "" {
		spec = fmt.Sprintf("@every %s", watchInterval)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(spec, cycle); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	log.Info("watching", zap.String("schedule", spec))
	cycle() // immediate first run
	scheduler.Start()

	<-ctx.Done()
	log.Info("shutting down")
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	return nil
}
