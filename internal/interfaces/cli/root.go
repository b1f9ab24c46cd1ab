package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/hoopstats/internal/app"
	"github.com/riskibarqy/hoopstats/internal/config"
	"github.com/riskibarqy/hoopstats/internal/observability"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
)

// RootOptions carries global flags and the state shared by subcommands.
type RootOptions struct {
	ConfigFile string
	Verbose    bool

	// AppOptions is the base for every app.New call; tests set Provider here.
	AppOptions app.Options

	cfg      config.Config
	logger   *logging.Logger
	shutdown []func(context.Context) error
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hoopstats",
		Short:         "League statistics engine for SportsPress sites",
		Long:          "Computes leaders, single-game records and career milestones from a SportsPress league and announces what changed.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.teardown()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "TOML overlay file (overrides CONFIG_FILE)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newLeadersCommand(opts))
	cmd.AddCommand(newRecordsCommand(opts))
	cmd.AddCommand(newMilestonesCommand(opts))

	return cmd
}

func (o *RootOptions) setup(cmd *cobra.Command) error {
	if o.ConfigFile != "" {
		if err := os.Setenv("CONFIG_FILE", o.ConfigFile); err != nil {
			return fmt.Errorf("set CONFIG_FILE: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.Verbose {
		cfg.LogLevel = logging.LevelDebug
	}
	o.cfg = cfg

	o.logger = logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  cmd.ErrOrStderr(),
		Service: cfg.ServiceName,
	})
	logging.SetDefault(o.logger)

	stopUptrace, err := observability.InitUptrace(cfg, o.logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	o.shutdown = append(o.shutdown, stopUptrace)

	stopPyroscope, err := observability.InitPyroscope(cfg, o.logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	o.shutdown = append(o.shutdown, func(context.Context) error { return stopPyroscope() })
	return nil
}

func (o *RootOptions) teardown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := len(o.shutdown) - 1; i >= 0; i-- {
		if err := o.shutdown[i](ctx); err != nil && o.logger != nil {
			o.logger.Warn("shutdown hook failed", "error", err)
		}
	}
	o.shutdown = nil
	if o.logger != nil {
		_ = o.logger.Sync()
	}
	return nil
}

func (o *RootOptions) build(ctx context.Context, out io.Writer, dryRun bool) (*app.App, error) {
	appOpts := o.AppOptions
	appOpts.Out = out
	appOpts.DryRun = dryRun
	return app.New(ctx, o.cfg, o.logger, appOpts)
}

func writeJSON(w io.Writer, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	raw = append(raw, '\n')
	_, err = w.Write(raw)
	return err
}
