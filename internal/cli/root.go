package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkooll/mcpbridge/internal/bridge"
	"github.com/dkooll/mcpbridge/internal/config"
	"github.com/dkooll/mcpbridge/internal/logging"
	"github.com/dkooll/mcpbridge/internal/schema"
	"github.com/dkooll/mcpbridge/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Options holds global CLI options.
type Options struct {
	ConfigPath string
	Root       string
	DBPath     string
}

// NewRootCmd constructs the base CLI command tree. Without a subcommand the
// MCP server is started.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "mcpbridge",
		Short:         "Catalog query and PDF form bridge for MCP agents",
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to config file (default: <root>/bridge.hcl)")
	cmd.PersistentFlags().StringVar(&opts.Root, "root", "", "Project root relative paths resolve against (default: working directory)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "Override the SQLite database path")

	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewQueryCmd(opts))
	cmd.AddCommand(NewRouteCmd(opts))
	cmd.AddCommand(NewFillCmd(opts))
	cmd.AddCommand(NewSchemaCmd(opts))
	cmd.AddCommand(NewInitDBCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// session is everything a subcommand needs to talk to the bridge.
type session struct {
	cfg      *config.Config
	settings bridge.Settings
	registry *schema.Registry
	logger   *zap.Logger
}

func (s *session) manager() *bridge.Manager {
	return bridge.NewManager(s.settings, s.registry, s.logger)
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.DBPath != "" {
		cfg.Database.Path = opts.DBPath
	}
	return cfg, nil
}

func openSession(opts *Options) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	settings, err := bridge.SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:      cfg,
		settings: settings,
		registry: cfg.Registry(),
		logger:   logger,
	}, nil
}
