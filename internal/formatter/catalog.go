package formatter

import (
	"fmt"
	"strings"

	"github.com/dkooll/mcpbridge/internal/database"
)

func LiveTables(tables []database.TableInfo) string {
	var text strings.Builder
	text.WriteString(fmt.Sprintf("# Catalog Tables (%d tables)\n\n", len(tables)))

	if len(tables) == 0 {
		text.WriteString("No tables found. Run init-db to create the products table.\n")
		return text.String()
	}

	for _, t := range tables {
		text.WriteString(fmt.Sprintf("## %s\n", t.Name))
		for _, c := range t.Columns {
			text.WriteString(fmt.Sprintf("- `%s` %s\n", c.Name, c.Type))
		}
		text.WriteString("\n")
	}

	return text.String()
}

// Bootstrap summarises an init-db run.
func Bootstrap(path string, tables []database.TableInfo, products int) string {
	var text strings.Builder
	text.WriteString("## Summary\n\n")
	text.WriteString(fmt.Sprintf("Database ready at %s\n", path))
	text.WriteString(fmt.Sprintf("%d tables, %d products\n", len(tables), products))

	if len(tables) > 0 {
		text.WriteString("\nTables:\n")
		for _, t := range tables {
			text.WriteString(fmt.Sprintf("- %s (%d columns)\n", t.Name, len(t.Columns)))
		}
	}

	return text.String()
}
