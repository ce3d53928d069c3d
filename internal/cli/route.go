package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkooll/mcpbridge/internal/bridge"
	"github.com/spf13/cobra"
)

// NewRouteCmd sends a free-form message through the router, exactly as the
// process_message tool does.
func NewRouteCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "route <message>",
		Short: "Route a message to the PDF filler or the query executor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			message := strings.Join(args, " ")
			return s.manager().Run(cmd.Context(), func(ctx context.Context, b *bridge.Bridge) error {
				res := b.ProcessMessage(ctx, message)
				fmt.Fprintln(cmd.OutOrStdout(), res.String())
				if !res.OK() {
					return fmt.Errorf("route failed: %s", res.Kind)
				}
				return nil
			})
		},
	}
}
