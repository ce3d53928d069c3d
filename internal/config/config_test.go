package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dkooll/mcpbridge/internal/workspace"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
database {
  path   = env("MCPBRIDGE_TEST_DB", "catalog.db")
  driver = "sqlite"
}

pdf {
  template_path = "${project_root}/forms/template.pdf"
  compress      = false
  font_size     = 10
}

logging {
  level = "debug"
}

table "orders" {
  description = "Customer orders"
  column "id" { type = "INTEGER" }
  column "total" { type = "REAL" }
}

table "products" {
  description = "Overridden catalog"
  column "id" { type = "INTEGER" }
}
`

func TestParse(t *testing.T) {
	cfg, err := Parse("bridge.hcl", []byte(sampleConfig), "/srv/app")
	require.NoError(t, err)

	require.Equal(t, "catalog.db", cfg.Database.Path)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "/srv/app/forms/template.pdf", cfg.PDF.TemplatePath)
	require.Equal(t, "tests/filled/filled_form.pdf", cfg.PDF.OutputPath)
	require.Equal(t, "Helvetica", cfg.PDF.FontFamily)
	require.Equal(t, float64(10), cfg.PDF.FontSize)
	require.False(t, cfg.PDF.Compress)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)

	reg := cfg.Registry()
	tables := reg.Tables()
	require.Len(t, tables, 2)
	require.Equal(t, "products", tables[0].Table)
	require.Equal(t, "Overridden catalog", tables[0].Description)
	require.Equal(t, "orders", tables[1].Table)
	require.Equal(t, "total", tables[1].Columns[1].Name)
}

func TestParseEnvOverride(t *testing.T) {
	t.Setenv("MCPBRIDGE_TEST_DB", "/data/live.db")

	cfg, err := Parse("bridge.hcl", []byte(sampleConfig), "/srv/app")
	require.NoError(t, err)
	require.Equal(t, "/data/live.db", cfg.Database.Path)
}

func TestParseRejectsUnknownDriver(t *testing.T) {
	_, err := Parse("bridge.hcl", []byte(`database { driver = "postgres" }`), "/")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}

func TestParseRejectsDuplicateTables(t *testing.T) {
	src := `
table "a" {
  column "id" { type = "INTEGER" }
}
table "a" {
  column "id" { type = "INTEGER" }
}
`
	_, err := Parse("bridge.hcl", []byte(src), "/")
	require.Error(t, err)
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load("", root)
	require.NoError(t, err)
	require.Equal(t, "test.db", cfg.Database.Path)
	require.Equal(t, root, cfg.Root)
	require.Equal(t, workspace.DefaultTemplate, cfg.PDF.TemplatePath)
	require.Equal(t, workspace.DefaultOutput, cfg.PDF.OutputPath)
	require.Equal(t, 1, cfg.Registry().Len())

	_, err = Load(filepath.Join(root, "missing.hcl"), root)
	require.Error(t, err)
}

func TestLoadDefaultFileFromRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultFile), []byte(`database { path = "other.db" }`), 0o644))

	cfg, err := Load("", root)
	require.NoError(t, err)
	require.Equal(t, "other.db", cfg.Database.Path)
	require.Equal(t, "sqlite3", cfg.Database.Driver)
}
