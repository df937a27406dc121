package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jbehrens/sporthalle-sync/internal/caldav"
	"github.com/jbehrens/sporthalle-sync/internal/config"
	"github.com/jbehrens/sporthalle-sync/internal/event"
	"github.com/jbehrens/sporthalle-sync/internal/logger"
	"github.com/jbehrens/sporthalle-sync/internal/scraper"
	"github.com/jbehrens/sporthalle-sync/internal/sync"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagLogLevel string
	flagFormat   string
	flagURL      string
	flagWorkers  int
	flagDry      bool
	flagCategory string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sporthalle-sync",
		Short: "Sync the Sporthalle Hamburg schedule into a CalDAV calendar",
		Long: `Scrapes the Sporthalle Hamburg event schedule and mirrors it into a
CalDAV calendar: new events are created, changed times are updated, and
events that vanished from the schedule are deleted.`,
		SilenceUsage: true,
		RunE:         runSync,
	}

	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().StringVar(&flagURL, "url", "", "Schedule URL override")

	cmd.Flags().BoolVar(&flagDry, "dry-run", false, "Compute and print all decisions without touching the calendar")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent calendar operations (default from SYNC_WORKERS)")

	cmd.AddCommand(newListCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Crawl the schedule and print the events without syncing",
		RunE:  runList,
	}
	cmd.Flags().StringVar(&flagCategory, "category", "", "Only show events of this category (e.g. Konzert)")
	return cmd
}

// setup applies the shared flags and loads configuration.
func setup() (*config.Config, OutputFormat, error) {
	level, err := logger.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, "", err
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return nil, "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	if flagURL != "" {
		cfg.ScheduleURL = flagURL
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	return cfg, format, nil
}

// runSync is the main command logic: crawl, reconcile, apply.
func runSync(cmd *cobra.Command, args []string) error {
	cfg, format, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.ValidateRemote(); err != nil {
		return err
	}

	ctx := cmd.Context()

	// Crawl first: any structural or transport failure aborts the cycle
	// here, before the calendar is so much as read.
	records, err := scraper.New(cfg.ScheduleURL, cfg.FallbackDoorsHour).FetchEvents(ctx)
	if err != nil {
		return fmt.Errorf("crawling schedule: %w", err)
	}
	logger.Info("Crawl finished", logger.Fields{"events": len(records)})

	store, err := caldav.Dial(ctx, cfg.CalendarURL, cfg.Username, cfg.Password, cfg.CalendarName)
	if err != nil {
		return fmt.Errorf("connecting to calendar: %w", err)
	}

	remote, err := store.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("listing calendar: %w", err)
	}

	policy := sync.Policy{
		EndAfterBeginHours: cfg.EndAfterBeginHours,
		EndAfterDoorsHours: cfg.EndAfterDoorsHours,
	}
	plan := sync.BuildPlan(records, remote, policy)

	result := &PlanResult{
		CheckedAt: time.Now().UTC(),
		DryRun:    flagDry,
		Scraped:   len(records),
		Plan:      plan,
	}
	if err := WritePlan(os.Stdout, result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	// Per-event write failures are logged inside the executor and must not
	// flip the exit status; only the plan computation path is fatal.
	executor := sync.NewExecutor(store, cfg.Workers, flagDry)
	if err := executor.Apply(ctx, plan); err != nil {
		logger.Warn("Some events failed to sync", logger.Fields{"error": err.Error()})
	}

	return nil
}

// runList crawls and prints without touching the calendar.
func runList(cmd *cobra.Command, args []string) error {
	cfg, format, err := setup()
	if err != nil {
		return err
	}

	records, err := scraper.New(cfg.ScheduleURL, cfg.FallbackDoorsHour).FetchEvents(cmd.Context())
	if err != nil {
		return fmt.Errorf("crawling schedule: %w", err)
	}

	records = filterByCategory(records, flagCategory)
	sortRecords(records)

	return WriteRecords(os.Stdout, records, format)
}

// filterByCategory keeps only records of the given category; an empty filter
// keeps everything.
func filterByCategory(records []event.Record, category string) []event.Record {
	if category == "" {
		return records
	}
	filtered := make([]event.Record, 0, len(records))
	for _, rec := range records {
		if strings.EqualFold(rec.Category, category) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
