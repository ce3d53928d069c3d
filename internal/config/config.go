// Package config loads the bridge settings from an HCL file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dkooll/mcpbridge/internal/schema"
	"github.com/dkooll/mcpbridge/internal/workspace"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

const DefaultFile = "bridge.hcl"

type Config struct {
	Database *DatabaseConfig `hcl:"database,block"`
	PDF      *PDFConfig      `hcl:"pdf,block"`
	Logging  *LoggingConfig  `hcl:"logging,block"`
	Tables   []TableConfig   `hcl:"table,block"`

	// Root is the project root every relative path is resolved against.
	Root string
}

type DatabaseConfig struct {
	Path   string `hcl:"path,optional"`
	Driver string `hcl:"driver,optional"`
}

type PDFConfig struct {
	TemplatePath string  `hcl:"template_path,optional"`
	OutputPath   string  `hcl:"output_path,optional"`
	FontFamily   string  `hcl:"font_family,optional"`
	FontSize     float64 `hcl:"font_size,optional"`
	FontFile     string  `hcl:"font_file,optional"`
	Compress     bool    `hcl:"compress,optional"`
}

type LoggingConfig struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

type TableConfig struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Columns     []ColumnConfig `hcl:"column,block"`
}

type ColumnConfig struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

func DefaultConfig() *Config {
	return &Config{
		Database: &DatabaseConfig{
			Path:   "test.db",
			Driver: "sqlite3",
		},
		PDF: &PDFConfig{
			TemplatePath: workspace.DefaultTemplate,
			OutputPath:   workspace.DefaultOutput,
			FontFamily:   "Helvetica",
			FontSize:     12,
			Compress:     true,
		},
		Logging: &LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path on top of the defaults. An empty path falls back to
// bridge.hcl in root; a missing default file is not an error.
func Load(path, root string) (*Config, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	cfg := DefaultConfig()
	cfg.Root = root

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, DefaultFile)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := hclsimple.DecodeFile(path, evalContext(root), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes HCL source held in memory. filename must end in .hcl.
func Parse(filename string, src []byte, root string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Root = root
	if err := hclsimple.Decode(filename, src, evalContext(root), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.PDF.FontSize < 0 {
		return fmt.Errorf("font_size must not be negative")
	}

	seen := make(map[string]struct{}, len(c.Tables))
	for _, t := range c.Tables {
		if _, ok := seen[t.Name]; ok {
			return fmt.Errorf("table %q declared twice", t.Name)
		}
		seen[t.Name] = struct{}{}
	}
	return nil
}

// Descriptors converts the table blocks in declaration order.
func (c *Config) Descriptors() []schema.Descriptor {
	out := make([]schema.Descriptor, 0, len(c.Tables))
	for _, t := range c.Tables {
		d := schema.Descriptor{Table: t.Name, Description: t.Description}
		for _, col := range t.Columns {
			d.Columns = append(d.Columns, schema.Column{Name: col.Name, Type: col.Type})
		}
		out = append(out, d)
	}
	return out
}

// Registry returns the built-in products descriptor plus every table block.
func (c *Config) Registry() *schema.Registry {
	reg := schema.NewDefaultRegistry()
	for _, d := range c.Descriptors() {
		reg.Register(d)
	}
	return reg
}

func evalContext(root string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"project_root": cty.StringVal(root),
		},
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

// envFunc implements env(name, [default]).
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	VarParam: &function.Parameter{Name: "default", Type: cty.String},
	Type:     function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		if v, ok := os.LookupEnv(args[0].AsString()); ok {
			return cty.StringVal(v), nil
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return cty.StringVal(""), nil
	},
})
