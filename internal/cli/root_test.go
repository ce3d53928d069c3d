package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dkooll/mcpbridge/internal/bridge"
	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
)

const testConfig = `
database {
  driver = "sqlite"
}

logging {
  level = "error"
}

table "orders" {
  description = "Customer orders"
  column "id" { type = "INTEGER" }
}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bridge.hcl"), []byte(testConfig), 0o644))

	out, err := execute(t, "init-db", "--sample", "--root", root)
	require.NoError(t, err)
	require.Contains(t, out, "5 products")
	return root
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestInitDBIsIdempotent(t *testing.T) {
	root := newProject(t)

	out, err := execute(t, "init-db", "--sample", "--root", root)
	require.NoError(t, err)
	require.Contains(t, out, "Database ready at "+filepath.Join(root, "test.db"))
	require.Contains(t, out, "5 products")
	require.Contains(t, out, "- products (7 columns)")
}

func TestQueryCommand(t *testing.T) {
	root := newProject(t)

	out, err := execute(t, "query", "--root", root, "SELECT id, title FROM products WHERE id = 1")
	require.NoError(t, err)
	require.Equal(t, "[{\"id\":1,\"title\":\"Wireless Mouse\"}]\n", out)

	out, err = execute(t, "query", "--root", root, "--format", "table", "SELECT", "title", "FROM", "products", "ORDER", "BY", "id")
	require.NoError(t, err)
	require.Contains(t, out, "# Query Results (5 rows)")
	require.Contains(t, out, "| Notebook |")

	_, err = execute(t, "query", "--root", root, "SELECT products.bogus FROM products")
	require.Error(t, err)
	require.Contains(t, err.Error(), bridge.QueryFailurePrefix)

	_, err = execute(t, "query", "--root", root, "--format", "xml", "SELECT 1")
	require.Error(t, err)
}

func TestQueryCommandDBOverride(t *testing.T) {
	root := newProject(t)
	other := filepath.Join(t.TempDir(), "other.db")

	_, err := execute(t, "init-db", "--root", root, "--db", other)
	require.NoError(t, err)
	require.FileExists(t, other)

	out, err := execute(t, "query", "--root", root, "--db", other, "SELECT COUNT(*) AS n FROM products")
	require.NoError(t, err)
	require.Equal(t, "[{\"n\":0}]\n", out)
}

func TestRouteCommand(t *testing.T) {
	root := newProject(t)

	out, err := execute(t, "route", "--root", root, "SELECT COUNT(*) AS n FROM products")
	require.NoError(t, err)
	require.Equal(t, "[{\"n\":5}]\n", out)

	out, err = execute(t, "route", "--root", root, `pdf 坐标(1,2)处填入"x"`)
	require.Error(t, err)
	require.Contains(t, out, bridge.PDFFailurePrefix)
	require.Contains(t, err.Error(), "template_not_found")
}

func TestFillCommand(t *testing.T) {
	root := newProject(t)

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	template := filepath.Join(root, "tests", "template.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(template), 0o755))
	require.NoError(t, pdf.OutputFileAndClose(template))

	out, err := execute(t, "fill", "--root", root, "--field", "10,20,Hello, world", "--field", "30,40,Bye")
	require.NoError(t, err)
	require.Contains(t, out, "PDF generated and saved to: "+filepath.Join(root, "tests", "filled", "filled_form.pdf"))
	require.Contains(t, out, "**field0** at (10, 20): Hello, world")
	require.Contains(t, out, "**field1** at (30, 40): Bye")
	require.FileExists(t, filepath.Join(root, "tests", "filled", "filled_form.pdf"))

	_, err = execute(t, "fill", "--root", root)
	require.Error(t, err)
}

func TestSchemaCommand(t *testing.T) {
	root := newProject(t)

	out, err := execute(t, "schema", "--root", root)
	require.NoError(t, err)
	require.Contains(t, out, "Table products: Product catalog with items for sale")
	require.Contains(t, out, "Table orders: Customer orders\n  - id (INTEGER)")

	out, err = execute(t, "schema", "--root", root, "--live")
	require.NoError(t, err)
	require.Contains(t, out, "Table: products\n  - id (INTEGER)")
	require.NotContains(t, out, "orders")

	out, err = execute(t, "schema", "--root", root, "--live", "--markdown")
	require.NoError(t, err)
	require.Contains(t, out, "## products\n- `id` INTEGER")
}

func TestServeCommand(t *testing.T) {
	root := newProject(t)

	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetIn(bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n"))
	cmd.SetArgs([]string{"--root", root})

	require.NoError(t, cmd.Execute())
	require.Contains(t, buf.String(), `"protocolVersion":"2024-11-05"`)
}

func TestParseFields(t *testing.T) {
	fields, err := parseFields([]string{"1, 2,a,b", "3,4,"})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	require.Equal(t, "a,b", fields[0].Text)
	require.Equal(t, 2, fields[0].Y)
	require.Equal(t, "field1", fields[1].Name)

	_, err = parseFields([]string{"1,2"})
	require.Error(t, err)
	_, err = parseFields([]string{"x,2,t"})
	require.Error(t, err)
}
