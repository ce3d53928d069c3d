package database

import (
	"fmt"
	"strings"

	"github.com/dkooll/mcpbridge/internal/schema"
)

const QueryToolName = "query_database"

// ToolSpec is the declarative description an agent uses to call the query
// operation.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func NewToolSpec(reg *schema.Registry) ToolSpec {
	var lines []string
	if reg != nil {
		for _, d := range reg.Tables() {
			cols := make([]string, 0, len(d.Columns))
			for _, c := range d.Columns {
				cols = append(cols, fmt.Sprintf("%s (%s)", c.Name, c.Type))
			}
			lines = append(lines, fmt.Sprintf("Table %s: %s\nColumns: %s", d.Table, d.Description, strings.Join(cols, ", ")))
		}
	}

	return ToolSpec{
		Name:        QueryToolName,
		Description: "Execute SQL queries against the database. Available schemas:\n" + strings.Join(lines, "\n"),
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "SQL query to execute",
				},
			},
			"required": []string{"query"},
		},
	}
}

func (t ToolSpec) ToMap() map[string]any {
	return map[string]any{
		"name":        t.Name,
		"description": t.Description,
		"inputSchema": t.InputSchema,
	}
}
