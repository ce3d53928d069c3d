// Package formatter renders catalog and form data as human readable text.
package formatter

import (
	"fmt"
	"strings"

	"github.com/dkooll/mcpbridge/internal/database"
)

const maxRows = 50

// QueryTable renders rows as a markdown table in store column order.
func QueryTable(query string, rows database.Result) string {
	var text strings.Builder
	text.WriteString(fmt.Sprintf("# Query Results (%d rows)\n\n", len(rows)))
	text.WriteString("```sql\n")
	text.WriteString(strings.TrimSpace(query))
	text.WriteString("\n```\n\n")

	if len(rows) == 0 {
		text.WriteString("No rows returned.\n")
		return text.String()
	}

	columns := rows[0].Columns
	text.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	text.WriteString("|" + strings.Repeat(" --- |", len(columns)) + "\n")

	for i, row := range rows {
		if i >= maxRows {
			text.WriteString(fmt.Sprintf("\n... and %d more rows\n", len(rows)-maxRows))
			break
		}
		cells := make([]string, len(row.Values))
		for j, v := range row.Values {
			cells[j] = Cell(v)
		}
		text.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return text.String()
}

// Cell formats a single value; NULL is shown explicitly.
func Cell(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return strings.ReplaceAll(val, "|", `\|`)
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
