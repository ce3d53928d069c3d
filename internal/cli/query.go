package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkooll/mcpbridge/internal/bridge"
	"github.com/dkooll/mcpbridge/internal/formatter"
	"github.com/spf13/cobra"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// NewQueryCmd executes SQL against the catalog.
func NewQueryCmd(opts *Options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SQL query against the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatTable {
				return fmt.Errorf("unsupported format %q", format)
			}

			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			query := strings.Join(args, " ")
			return s.manager().Run(cmd.Context(), func(ctx context.Context, b *bridge.Bridge) error {
				tool, err := b.Tool()
				if err != nil {
					return err
				}

				rows, err := tool.ExecuteQuery(ctx, query)
				if err != nil {
					return fmt.Errorf("%s%w", bridge.QueryFailurePrefix, err)
				}

				out := cmd.OutOrStdout()
				if format == formatTable {
					fmt.Fprint(out, formatter.QueryTable(query, rows))
					return nil
				}
				fmt.Fprintln(out, rows.String())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format: json|table")
	return cmd
}
