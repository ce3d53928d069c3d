package bridge

import (
	"context"
	"fmt"

	"github.com/dkooll/mcpbridge/internal/extractor"
	"github.com/dkooll/mcpbridge/internal/schema"
	"go.uber.org/zap"
)

// Manager scopes a bridge session: Open initializes, Close tears down.
type Manager struct {
	settings   Settings
	registry   *schema.Registry
	logger     *zap.Logger
	strategies []extractor.Strategy
	bridge     *Bridge
}

func NewManager(settings Settings, registry *schema.Registry, logger *zap.Logger, strategies ...extractor.Strategy) *Manager {
	return &Manager{
		settings:   settings,
		registry:   registry,
		logger:     logger,
		strategies: strategies,
	}
}

func (m *Manager) Open(ctx context.Context) (*Bridge, error) {
	if m.bridge != nil {
		return nil, fmt.Errorf("session already open")
	}

	b := New(m.settings, m.registry, m.logger, m.strategies...)
	if err := b.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("bridge initialization failed: %w", err)
	}
	m.bridge = b
	return b, nil
}

func (m *Manager) Close(ctx context.Context) error {
	if m.bridge == nil {
		return nil
	}
	err := m.bridge.Close(ctx)
	m.bridge = nil
	return err
}

// Run opens a session, hands it to fn and closes it on every exit path.
func (m *Manager) Run(ctx context.Context, fn func(context.Context, *Bridge) error) (err error) {
	b, err := m.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(ctx); err == nil {
			err = cerr
		}
	}()
	return fn(ctx, b)
}
