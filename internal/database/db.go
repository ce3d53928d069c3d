// Package database runs caller supplied SQL against the local catalog store.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dkooll/mcpbridge/internal/schema"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	// DriverSQLite3 is the cgo backed mattn/go-sqlite3 driver.
	DriverSQLite3 = "sqlite3"
	// DriverSQLite is the pure Go modernc.org/sqlite driver.
	DriverSQLite = "sqlite"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrValidationFailed = errors.New("validation failed")
)

// Executor opens a fresh connection for every call and always releases it
// before returning.
type Executor struct {
	path     string
	driver   string
	registry *schema.Registry
	logger   *zap.Logger
}

func NewExecutor(path, driver string, registry *schema.Registry, logger *zap.Logger) *Executor {
	if driver == "" {
		driver = DriverSQLite3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		path:     path,
		driver:   driver,
		registry: registry,
		logger:   logger,
	}
}

func (e *Executor) Path() string {
	return e.path
}

func (e *Executor) Registry() *schema.Registry {
	return e.registry
}

func (e *Executor) open() (*sql.DB, error) {
	conn, err := sql.Open(e.driver, e.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	return conn, nil
}

// Execute runs query verbatim. Blank queries fail with ErrInvalidArgument and
// queries rejected by the registry heuristic fail with ErrValidationFailed;
// anything else is a store error surfaced as-is.
func (e *Executor) Execute(ctx context.Context, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query parameter is required", ErrInvalidArgument)
	}
	if e.registry != nil && !e.registry.Validate(query) {
		return nil, fmt.Errorf("%w: query references invalid columns", ErrValidationFailed)
	}

	conn, err := e.open()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := Result{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i := range values {
			values[i] = normalizeValue(values[i])
		}
		result = append(result, Row{Columns: columns, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	e.logger.Debug("query executed", zap.Int("rows", len(result)), zap.String("db", e.path))
	return result, nil
}

type ColumnInfo struct {
	Name string
	Type string
}

type TableInfo struct {
	Name    string
	Columns []ColumnInfo
}

// LiveTables introspects the tables actually present in the store, ignoring
// the registry.
func (e *Executor) LiveTables(ctx context.Context) ([]TableInfo, error) {
	conn, err := e.open()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	names, err := tableNames(ctx, conn)
	if err != nil {
		return nil, err
	}

	tables := make([]TableInfo, 0, len(names))
	for _, name := range names {
		cols, err := tableColumns(ctx, conn, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, TableInfo{Name: name, Columns: cols})
	}
	return tables, nil
}

// DescribeLiveSchema formats LiveTables as one block per table.
func (e *Executor) DescribeLiveSchema(ctx context.Context) (string, error) {
	tables, err := e.LiveTables(ctx)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(tables))
	for _, t := range tables {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Table: %s", t.Name))
		for _, c := range t.Columns {
			text.WriteString(fmt.Sprintf("\n  - %s (%s)", c.Name, c.Type))
		}
		parts = append(parts, text.String())
	}
	return strings.Join(parts, "\n\n"), nil
}

func tableNames(ctx context.Context, conn *sql.DB) ([]string, error) {
	rows, err := conn.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func tableColumns(ctx context.Context, conn *sql.DB, table string) ([]ColumnInfo, error) {
	rows, err := conn.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, ColumnInfo{Name: name, Type: ctype})
	}
	return cols, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
