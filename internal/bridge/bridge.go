// Package bridge routes agent messages to the catalog query or the PDF
// form filler and reports the outcome as a tagged Result.
package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkooll/mcpbridge/internal/extractor"
	"github.com/dkooll/mcpbridge/internal/schema"
	"github.com/dkooll/mcpbridge/pkg/form"
	"go.uber.org/zap"
)

var ErrNotInitialized = errors.New("bridge not initialized")

type Bridge struct {
	settings   Settings
	registry   *schema.Registry
	strategies []extractor.Strategy
	logger     *zap.Logger
	tool       *Tool
}

// New builds an uninitialized bridge. A nil registry gets the default
// products catalog; with no strategies the coordinate grammar is used.
func New(settings Settings, registry *schema.Registry, logger *zap.Logger, strategies ...extractor.Strategy) *Bridge {
	if registry == nil {
		registry = schema.NewDefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(strategies) == 0 {
		strategies = []extractor.Strategy{extractor.NewCoordinate()}
	}
	return &Bridge{
		settings:   settings,
		registry:   registry,
		strategies: strategies,
		logger:     logger,
	}
}

// Initialize binds the backing tool to the configured store. It may be
// called once per session.
func (b *Bridge) Initialize(ctx context.Context) error {
	if b.tool != nil {
		return fmt.Errorf("bridge already initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.tool = NewTool(b.settings, b.registry, b.logger)
	b.logger.Info("bridge initialized",
		zap.String("db", b.tool.Catalog.Path()),
		zap.String("driver", b.settings.Driver),
	)
	return nil
}

func (b *Bridge) Initialized() bool {
	return b.tool != nil
}

// Tool returns the backing tool, or ErrNotInitialized.
func (b *Bridge) Tool() (*Tool, error) {
	if b.tool == nil {
		return nil, ErrNotInitialized
	}
	return b.tool, nil
}

func (b *Bridge) Settings() Settings {
	return b.settings
}

// ProcessMessage never fails: every outcome is encoded in the Result.
// The first strategy that triggers and yields fields turns the message into
// a fill request; everything else is executed as SQL.
func (b *Bridge) ProcessMessage(ctx context.Context, message string) Result {
	if b.tool == nil {
		return Err(KindNotInitialized, QueryFailurePrefix, ErrNotInitialized)
	}

	for _, s := range b.strategies {
		if !s.Triggered(message) {
			continue
		}
		fields := s.Extract(message)
		if len(fields) == 0 {
			b.logger.Debug("fill trigger without fields, falling back to query", zap.String("strategy", s.Name()))
			continue
		}
		return b.fill(fields, s.Name())
	}

	return b.query(ctx, message)
}

func (b *Bridge) fill(fields []form.Field, strategy string) Result {
	b.logger.Info("routing to pdf filler", zap.String("strategy", strategy), zap.Int("fields", len(fields)))

	path, err := b.tool.FillPDF(b.settings.TemplatePath, b.settings.OutputPath, fields)
	if err != nil {
		b.logger.Warn("pdf fill failed", zap.Error(err))
		return Err(Classify(err), PDFFailurePrefix, err)
	}
	return Ok(PDFSuccessPrefix + path)
}

func (b *Bridge) query(ctx context.Context, message string) Result {
	b.logger.Debug("routing to query executor")

	rows, err := b.tool.ExecuteQuery(ctx, message)
	if err != nil {
		b.logger.Warn("query failed", zap.Error(err))
		return Err(Classify(err), QueryFailurePrefix, err)
	}
	return Ok(rows.String())
}

// Close releases the session. Connections are per call, so there is
// nothing to free beyond the tool reference.
func (b *Bridge) Close(ctx context.Context) error {
	if b.tool != nil {
		b.logger.Info("bridge closed")
	}
	b.tool = nil
	return nil
}
