package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nikosa/p2pflow/pkg/browser"
	"github.com/nikosa/p2pflow/pkg/config"
	"github.com/nikosa/p2pflow/pkg/credentials"
	"github.com/nikosa/p2pflow/pkg/driver"
	"github.com/nikosa/p2pflow/pkg/export"
	"github.com/nikosa/p2pflow/pkg/parser"
	"github.com/nikosa/p2pflow/pkg/platform"
	"github.com/nikosa/p2pflow/pkg/worker"
)

var (
	cfgFile       string
	statementsDir string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "p2pflow",
	Short: "Retrieve and aggregate P2P platform account statements",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Download, parse and aggregate statements for the selected platforms",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger("p2pflow")

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		dateRange, err := cfg.DateRange()
		if err != nil {
			return err
		}

		registry := platform.NewRegistry()
		if cfg.DescriptorOverrides != "" {
			if err := registry.LoadOverrides(cfg.DescriptorOverrides); err != nil {
				return err
			}
		}

		selected := cfg.Platforms
		if len(selected) == 0 {
			selected = registry.Names()
		}

		creds, err := credentials.NewEnvProvider(cfg.EnvFile)
		if err != nil {
			return err
		}

		notify := func(e worker.Event) {
			logger.Info(e.Message, "platform", e.Platform, "state", e.State)
		}

		var fetcher worker.Fetcher
		if statementsDir != "" {
			fetcher = &worker.FileFetcher{Dir: statementsDir}
		} else {
			factory := browser.DefaultFactory()
			if factory == nil {
				return fmt.Errorf("no browser automation engine linked into this build; " +
					"pass --statements to evaluate pre-downloaded files")
			}
			d := driver.New(factory, cfg.ScratchDir, cfg.Headless, logger)
			d.OnState = worker.DriverNotifier(notify)
			fetcher = d
		}

		w := worker.New(registry, fetcher, parser.New(logger), creds, logger)
		w.SetNotifier(notify)

		results, outcomes, err := w.Evaluate(cmd.Context(), selected, dateRange)
		for _, o := range outcomes {
			switch o.State {
			case worker.StateSucceeded:
				logger.Info("platform evaluated", "platform", o.Platform, "records", o.Records)
			case worker.StateIgnored:
				logger.Warn("platform skipped", "platform", o.Platform)
			default:
				logger.Error("platform failed", "platform", o.Platform, "error", o.Err)
			}
		}
		if err != nil {
			return err
		}

		if err := export.WriteResults(cfg.OutputDir, results); err != nil {
			return err
		}
		logger.Info("results written", "dir", cfg.OutputDir)
		return nil
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <platform> <statement_file>",
	Short: "Parse a single downloaded statement and print its canonical records",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger("p2pflow")

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		dateRange, err := cfg.DateRange()
		if err != nil {
			return err
		}

		registry := platform.NewRegistry()
		if cfg.DescriptorOverrides != "" {
			if err := registry.LoadOverrides(cfg.DescriptorOverrides); err != nil {
				return err
			}
		}
		desc, err := registry.Get(args[0])
		if err != nil {
			return err
		}

		st, err := parser.New(logger).Parse(desc, args[1], dateRange)
		if err != nil {
			return err
		}

		for _, label := range st.UnknownLabels {
			logger.Warn("unknown cash flow type", "platform", st.Platform, "label", label)
		}
		for _, warning := range st.Warnings {
			logger.Warn(warning)
		}
		for _, rec := range st.Records {
			fmt.Printf("%s,%s,%s,%s,%s\n",
				rec.Platform, rec.Date.Format("2006-01-02"), rec.Currency,
				rec.Type.Label(), rec.Amount.StringFixed(2))
		}
		return nil
	},
}

func newLogger(prefix string) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	}
	if verbose {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}
	return log.NewWithOptions(os.Stderr, opts)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./p2pflow.yaml or ~/p2pflow.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	evaluateCmd.Flags().String("start_month", "", "first month of the evaluation range (2006-01)")
	evaluateCmd.Flags().String("end_month", "", "last month of the evaluation range (2006-01)")
	evaluateCmd.Flags().StringSlice("platforms", nil, "platforms to evaluate (default: all)")
	evaluateCmd.Flags().String("output_dir", "", "directory for the result sheets")
	evaluateCmd.Flags().String("scratch_dir", "", "download scratch directory")
	evaluateCmd.Flags().Bool("headless", true, "run browser sessions headless")
	evaluateCmd.Flags().String("env_file", "", "env file with platform credentials")
	evaluateCmd.Flags().String("descriptor_overrides", "", "YAML file with platform descriptor overrides")
	evaluateCmd.Flags().StringVar(&statementsDir, "statements", "", "evaluate pre-downloaded statements from this directory")

	parseCmd.Flags().String("start_month", "", "first month of the evaluation range (2006-01)")
	parseCmd.Flags().String("end_month", "", "last month of the evaluation range (2006-01)")
	parseCmd.Flags().String("descriptor_overrides", "", "YAML file with platform descriptor overrides")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(platformsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
