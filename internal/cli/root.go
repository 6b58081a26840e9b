package cli

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/postgreat/postgreat/internal/config"
	"github.com/postgreat/postgreat/internal/engine"
	"github.com/postgreat/postgreat/internal/output"
	"github.com/postgreat/postgreat/internal/pgsnapshot"
	"github.com/postgreat/postgreat/internal/postgres"
	"github.com/postgreat/postgreat/internal/profile"
	"github.com/postgreat/postgreat/internal/report"
)

// NewRootCmd builds and returns the root cobra.Command for the postgreat CLI.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile      string
		envelope     output.Format
		reportFormat report.Format
		verbose      bool
		target       string
	)

	root := &cobra.Command{
		Use:   "postgreat",
		Short: "PostgreSQL configuration and workload analysis",
		Long: "postgreat inspects a PostgreSQL instance's settings, table and index " +
			"health, and query workload, and reports tuning suggestions. It never " +
			"modifies the target database.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch envelope {
			case output.FormatJSON, output.FormatTable, output.FormatYAML:
			default:
				return fmt.Errorf("invalid --envelope %q: must be json, table, or yaml", envelope)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (when empty, only POSTGREAT_* environment variables are read)")
	root.PersistentFlags().StringVar((*string)(&envelope), "envelope", "json", "Run-result envelope: json|table|yaml")
	root.PersistentFlags().StringVar((*string)(&reportFormat), "format", "markdown", "Report format: markdown|json|text")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&target, "target", "", "Analyze only the named target (default: all configured targets)")

	root.AddCommand(newAnalyzeCmd(&cfgFile, &envelope, &reportFormat, &verbose, &target))

	return root
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func newAnalyzeCmd(cfgFile *string, envelope *output.Format, reportFormat *report.Format, verbose *bool, target *string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run analysis against every configured target and print a report per target",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return writeFailure(cmd, *envelope, "analyze", err)
			}
			if err := cfg.Validate(); err != nil {
				return writeFailure(cmd, *envelope, "analyze", err)
			}

			targets := cfg.Targets
			if *target != "" {
				targets = filterTargets(targets, *target)
				if len(targets) == 0 {
					return writeFailure(cmd, *envelope, "analyze",
						fmt.Errorf("no configured target named %q", *target))
				}
			}
			if len(targets) == 0 {
				return writeFailure(cmd, *envelope, "analyze", fmt.Errorf("no targets configured"))
			}

			runs := analyzeAll(cmd.Context(), log, targets, *reportFormat)

			resp := output.Success("analyze", runs)
			out, err := output.FormatEnvelope(resp, *envelope)
			if err != nil {
				return writeFailure(cmd, *envelope, "analyze", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// analyzeAll runs one engine.Analyze per target concurrently. Targets share
// no mutable state: each gets its own pool, provider, and Report.
func analyzeAll(ctx context.Context, log zerolog.Logger, targets []config.Target, format report.Format) []output.TargetRun {
	runs := make([]output.TargetRun, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t config.Target) {
			defer wg.Done()
			runs[i] = analyzeOne(ctx, log, t, format)
		}(i, t)
	}
	wg.Wait()
	return runs
}

func analyzeOne(ctx context.Context, log zerolog.Logger, t config.Target, format report.Format) output.TargetRun {
	tlog := log.With().Str("target", t.Name).Logger()

	pgCfg := postgres.Config{
		Host:        t.Host,
		Port:        t.Port,
		User:        t.User,
		Database:    t.Database,
		SSLMode:     t.SSLMode,
		PasswordEnv: t.PasswordEnv,
	}

	pool, err := postgres.Connect(ctx, pgCfg)
	if err != nil {
		tlog.Error().Err(err).Msg("connect failed")
		return output.TargetRun{Target: t.Name, Error: err.Error()}
	}
	defer pool.Close()

	p, ok := profile.Parse(t.ComputeTier, profile.WorkloadHint(t.WorkloadHint))
	if !ok {
		tlog.Warn().Str("compute_tier", t.ComputeTier).Msg("could not parse compute profile, using medium default")
	}

	opts := engine.DefaultOptions()

	provider := pgsnapshot.New(pool)
	rep, err := engine.Analyze(ctx, provider, p, opts)
	if err != nil {
		tlog.Error().Err(err).Msg("analysis failed")
		return output.TargetRun{Target: t.Name, Error: err.Error()}
	}

	rendered, err := report.Render(rep, format)
	if err != nil {
		tlog.Error().Err(err).Msg("render failed")
		return output.TargetRun{Target: t.Name, Error: err.Error()}
	}
	return output.TargetRun{Target: t.Name, Report: rendered}
}

func filterTargets(targets []config.Target, name string) []config.Target {
	var out []config.Target
	for _, t := range targets {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

func writeFailure(cmd *cobra.Command, format output.Format, command string, err error) error {
	resp := output.Failure(command, err)
	out, ferr := output.FormatEnvelope(resp, format)
	if ferr != nil {
		out = err.Error()
	}
	fmt.Fprintln(cmd.ErrOrStderr(), out)
	return err
}
