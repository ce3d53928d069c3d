package cli

import (
	"context"
	"fmt"

	"github.com/dkooll/mcpbridge/internal/bridge"
	"github.com/dkooll/mcpbridge/internal/database"
	"github.com/dkooll/mcpbridge/internal/formatter"
	"github.com/dkooll/mcpbridge/internal/workspace"
	"github.com/spf13/cobra"
)

// NewSchemaCmd prints the registered schemas, or the live catalog.
func NewSchemaCmd(opts *Options) *cobra.Command {
	var (
		live     bool
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Describe table schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			return s.manager().Run(cmd.Context(), func(ctx context.Context, b *bridge.Bridge) error {
				tool, err := b.Tool()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				if !live {
					fmt.Fprintln(out, tool.DescribeSchema())
					return nil
				}

				if markdown {
					tables, err := tool.Catalog.LiveTables(ctx)
					if err != nil {
						return err
					}
					fmt.Fprint(out, formatter.LiveTables(tables))
					return nil
				}

				text, err := tool.DescribeLiveSchema(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "Introspect the database instead of the registry")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the live schema as markdown")
	return cmd
}

// NewInitDBCmd creates the products table, optionally with sample rows.
func NewInitDBCmd(opts *Options) *cobra.Command {
	var sample bool

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the catalog schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			ws, err := workspace.NewManager(s.cfg.Root)
			if err != nil {
				return err
			}
			if err := ws.EnsureDir(s.settings.DatabasePath); err != nil {
				return err
			}

			exec := database.NewExecutor(s.settings.DatabasePath, s.settings.Driver, nil, s.logger.Named("database"))
			ctx := cmd.Context()
			if err := exec.Bootstrap(ctx, sample); err != nil {
				return err
			}

			tables, err := exec.LiveTables(ctx)
			if err != nil {
				return err
			}

			rows, err := exec.Execute(ctx, "SELECT COUNT(*) AS n FROM products")
			if err != nil {
				return err
			}
			var products int64
			if len(rows) == 1 {
				if n, ok := rows[0].Get("n"); ok {
					products, _ = n.(int64)
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.Bootstrap(exec.Path(), tables, int(products)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&sample, "sample", false, "Insert sample products into an empty table")
	return cmd
}
