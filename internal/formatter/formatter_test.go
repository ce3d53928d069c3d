package formatter

import (
	"strings"
	"testing"

	"github.com/dkooll/mcpbridge/internal/database"
	"github.com/dkooll/mcpbridge/pkg/form"
	"github.com/stretchr/testify/require"
)

func TestQueryTable(t *testing.T) {
	rows := database.Result{
		{Columns: []string{"id", "title", "price"}, Values: []any{int64(1), "Mouse | USB", 29.99}},
		{Columns: []string{"id", "title", "price"}, Values: []any{int64(2), nil, float64(5)}},
	}

	out := QueryTable(" SELECT id, title, price FROM products ", rows)
	require.Contains(t, out, "# Query Results (2 rows)")
	require.Contains(t, out, "SELECT id, title, price FROM products\n```")
	require.Contains(t, out, "| id | title | price |\n| --- | --- | --- |\n")
	require.Contains(t, out, `| 1 | Mouse \| USB | 29.99 |`)
	require.Contains(t, out, "| 2 | NULL | 5 |")
}

func TestQueryTableEmptyAndTruncated(t *testing.T) {
	require.Contains(t, QueryTable("SELECT 1 WHERE 0", nil), "No rows returned.")

	var rows database.Result
	for i := 0; i < maxRows+3; i++ {
		rows = append(rows, database.Row{Columns: []string{"n"}, Values: []any{int64(i)}})
	}
	out := QueryTable("SELECT n", rows)
	require.Contains(t, out, "... and 3 more rows")
	require.Equal(t, maxRows+2, strings.Count(out, "\n| "))
}

func TestFillSummary(t *testing.T) {
	out := FillSummary("/tmp/out.pdf", []form.Field{
		{X: 10, Y: 20, Text: "Hello"},
		{Name: "sig", X: 30, Y: 40, Text: "World"},
	})
	require.True(t, strings.HasPrefix(out, "PDF generated and saved to: /tmp/out.pdf"))
	require.Contains(t, out, "- **field0** at (10, 20): Hello")
	require.Contains(t, out, "- **sig** at (30, 40): World")
}

func TestCatalogFormatting(t *testing.T) {
	tables := []database.TableInfo{
		{Name: "products", Columns: []database.ColumnInfo{{Name: "id", Type: "INTEGER"}, {Name: "title", Type: "TEXT"}}},
	}

	out := LiveTables(tables)
	require.Contains(t, out, "## products\n- `id` INTEGER\n- `title` TEXT\n")
	require.Contains(t, LiveTables(nil), "No tables found")

	summary := Bootstrap("/data/test.db", tables, 5)
	require.Contains(t, summary, "Database ready at /data/test.db")
	require.Contains(t, summary, "1 tables, 5 products")
	require.Contains(t, summary, "- products (2 columns)")
}
