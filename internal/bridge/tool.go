package bridge

import (
	"context"
	"fmt"

	"github.com/dkooll/mcpbridge/internal/config"
	"github.com/dkooll/mcpbridge/internal/database"
	"github.com/dkooll/mcpbridge/internal/pdfform"
	"github.com/dkooll/mcpbridge/internal/schema"
	"github.com/dkooll/mcpbridge/internal/workspace"
	"github.com/dkooll/mcpbridge/pkg/form"
	"go.uber.org/zap"
)

// Settings are the resolved, absolute locations a session works with.
type Settings struct {
	// Root anchors relative override paths; empty means the working directory.
	Root         string
	DatabasePath string
	Driver       string
	TemplatePath string
	OutputPath   string
	PDF          pdfform.Options
}

func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	ws, err := workspace.NewManager(cfg.Root)
	if err != nil {
		return Settings{}, err
	}
	if err := ws.Check(); err != nil {
		return Settings{}, err
	}

	opts := pdfform.Options{
		FontFamily: cfg.PDF.FontFamily,
		FontSize:   cfg.PDF.FontSize,
		FontFile:   ws.Resolve(cfg.PDF.FontFile),
		Compress:   cfg.PDF.Compress,
	}
	if opts.FontFile != "" && !ws.FileExists(opts.FontFile) {
		return Settings{}, fmt.Errorf("font file not found: %s", opts.FontFile)
	}

	return Settings{
		Root:         ws.Root(),
		DatabasePath: ws.Resolve(cfg.Database.Path),
		Driver:       cfg.Database.Driver,
		TemplatePath: ws.Resolve(cfg.PDF.TemplatePath),
		OutputPath:   ws.Resolve(cfg.PDF.OutputPath),
		PDF:          opts,
	}, nil
}

// ResolvePath anchors a relative override path at Root.
func (s Settings) ResolvePath(path string) (string, error) {
	ws, err := workspace.NewManager(s.Root)
	if err != nil {
		return "", err
	}
	return ws.Resolve(path), nil
}

// Tool is the single backing instance of a session; it serves both the
// query and the PDF operations.
type Tool struct {
	Catalog *database.Executor
	Forms   *pdfform.Filler
}

func NewTool(settings Settings, registry *schema.Registry, logger *zap.Logger) *Tool {
	return &Tool{
		Catalog: database.NewExecutor(settings.DatabasePath, settings.Driver, registry, logger.Named("database")),
		Forms:   pdfform.NewFiller(settings.PDF, logger.Named("pdfform")),
	}
}

func (t *Tool) ExecuteQuery(ctx context.Context, query string) (database.Result, error) {
	return t.Catalog.Execute(ctx, query)
}

func (t *Tool) FillPDF(templatePath, outputPath string, fields []form.Field) (string, error) {
	return t.Forms.Fill(templatePath, form.Named(fields), outputPath)
}

func (t *Tool) DescribeSchema() string {
	return t.Catalog.Registry().DescribeAll()
}

func (t *Tool) DescribeLiveSchema(ctx context.Context) (string, error) {
	return t.Catalog.DescribeLiveSchema(ctx)
}

func (t *Tool) Spec() database.ToolSpec {
	return database.NewToolSpec(t.Catalog.Registry())
}
