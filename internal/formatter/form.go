package formatter

import (
	"fmt"
	"strings"

	"github.com/dkooll/mcpbridge/pkg/form"
)

func FillSummary(outputPath string, fields []form.Field) string {
	var text strings.Builder
	text.WriteString(fmt.Sprintf("PDF generated and saved to: %s\n\n", outputPath))
	text.WriteString(fmt.Sprintf("## Fields (%d)\n\n", len(fields)))

	for i, f := range fields {
		name := f.Name
		if name == "" {
			name = form.FieldName(i)
		}
		text.WriteString(fmt.Sprintf("- **%s** at (%d, %d): %s\n", name, f.X, f.Y, f.Text))
	}

	return text.String()
}
