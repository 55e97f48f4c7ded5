package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	service "github.com/okian/trueskill/internal/app"
	"github.com/okian/trueskill/internal/config"
	"github.com/okian/trueskill/pkg/logger"
	"github.com/okian/trueskill/pkg/metrics"
)

var version = "dev"

// cli holds state shared by subcommands once the root pre-run has loaded it.
type cli struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	svc *service.Service
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:   "trueskill",
		Short: "Evaluate TrueSkill match quality",
		Long: `trueskill computes the TrueSkill draw-probability match quality of
team line-ups, either jointly or as the mean over every pair of teams
(free-for-all).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "YAML config file (default $"+config.EnvConfigPath+")")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&c.logFormat, "log-format", "", "log format: text or json")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return c.setup(cmd)
	}

	cmd.AddCommand(newQualityCommand(c))
	cmd.AddCommand(newFreeForAllCommand(c))
	cmd.AddCommand(newGenerateCommand(c))
	cmd.AddCommand(newBatchCommand(c))
	cmd.AddCommand(newDemoCommand())

	return cmd
}

// setup loads configuration and initializes logging, metrics and the service.
func (c *cli) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()

	path := c.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}
	cfg, err := config.LoadFile(ctx, path)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.logFormat != "" {
		cfg.LogFormat = c.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs go to stderr so stdout stays machine-readable.
	if err := logger.Init(
		logger.WithWriter(cmd.ErrOrStderr()),
		logger.WithJSON(cfg.LogFormat == "json"),
		logger.WithCaller(cfg.LogLevel == "debug"),
	); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsLatencyBuckets),
		metrics.WithQualityBuckets(cfg.MetricsQualityBuckets),
	)

	c.cfg = cfg
	c.svc = service.New(
		service.WithBeta(cfg.Beta),
		service.WithConcurrency(cfg.Concurrency),
		service.WithBatchWorkers(cfg.BatchWorkers),
		service.WithQueueSize(cfg.BatchQueueSize),
		service.WithLogger(logger.Named("trueskill")),
	)
	logger.Get().Debug(ctx, "configuration loaded",
		logger.Float64("beta", cfg.Beta),
		logger.Int("batch_workers", cfg.BatchWorkers),
		logger.Int("concurrency", cfg.Concurrency),
	)
	return nil
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return newRootCommand().ExecuteContext(ctx)
}
