package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dkooll/mcpbridge/internal/bridge"
	"github.com/dkooll/mcpbridge/internal/formatter"
	"github.com/dkooll/mcpbridge/pkg/form"
	"github.com/spf13/cobra"
)

// NewFillCmd draws explicit fields onto the template.
func NewFillCmd(opts *Options) *cobra.Command {
	var (
		specs    []string
		template string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "fill --field x,y,text [--field x,y,text ...]",
		Short: "Fill the PDF template with text at the given coordinates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(specs) == 0 {
				return fmt.Errorf("at least one --field is required")
			}
			fields, err := parseFields(specs)
			if err != nil {
				return err
			}

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

				settings := b.Settings()
				templatePath, outputPath := settings.TemplatePath, settings.OutputPath
				if template != "" {
					if templatePath, err = settings.ResolvePath(template); err != nil {
						return err
					}
				}
				if output != "" {
					if outputPath, err = settings.ResolvePath(output); err != nil {
						return err
					}
				}

				path, err := tool.FillPDF(templatePath, outputPath, fields)
				if err != nil {
					return fmt.Errorf("%s%w", bridge.PDFFailurePrefix, err)
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FillSummary(path, fields))
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&specs, "field", nil, "Field as x,y,text (repeatable)")
	cmd.Flags().StringVar(&template, "template", "", "Template override")
	cmd.Flags().StringVar(&output, "output", "", "Output override")
	return cmd
}

// parseFields reads x,y,text specs; the text part may itself contain commas.
func parseFields(specs []string) ([]form.Field, error) {
	fields := make([]form.Field, 0, len(specs))
	for i, spec := range specs {
		parts := strings.SplitN(spec, ",", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid field %q: expected x,y,text", spec)
		}
		x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid x in %q: %w", spec, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid y in %q: %w", spec, err)
		}
		fields = append(fields, form.Field{Name: form.FieldName(i), X: x, Y: y, Text: parts[2]})
	}
	return fields, nil
}
