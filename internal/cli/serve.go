package cli

import (
	"context"
	"errors"

	"github.com/dkooll/mcpbridge/pkg/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCmd runs the MCP server on stdin/stdout.
func NewServeCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the bridge tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *Options) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	s.logger.Info("starting mcp server",
		zap.String("root", s.cfg.Root),
		zap.String("db", s.settings.DatabasePath),
		zap.Int("tables", s.registry.Len()),
	)

	server := mcp.NewServer(s.settings, s.registry, s.logger.Named("mcp"))
	err = server.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	if errors.Is(err, context.Canceled) {
		s.logger.Info("server stopped")
		return nil
	}
	return err
}
