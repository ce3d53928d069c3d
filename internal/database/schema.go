package database

import (
	"context"
	"fmt"
)

const Schema = `
CREATE TABLE IF NOT EXISTS products (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT,
    price REAL NOT NULL DEFAULT 0,
    category TEXT,
    stock INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`

type sampleProduct struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Stock       int
}

var sampleProducts = []sampleProduct{
	{"Wireless Mouse", "Ergonomic 2.4GHz mouse", 24.99, "Electronics", 120},
	{"Mechanical Keyboard", "Tenkeyless, brown switches", 89.5, "Electronics", 45},
	{"Espresso Beans", "1kg medium roast", 18.0, "Grocery", 300},
	{"Desk Lamp", "LED, adjustable arm", 39.9, "Home", 0},
	{"Notebook", "A5 dotted, 120 pages", 6.5, "Stationery", 800},
}

// Bootstrap creates the products table if missing. With sample set, rows are
// inserted only when the table is still empty.
func (e *Executor) Bootstrap(ctx context.Context, sample bool) error {
	conn, err := e.open()
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	if !sample {
		return nil
	}

	var count int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, p := range sampleProducts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products (title, description, price, category, stock)
			VALUES (?, ?, ?, ?, ?)
		`, p.Title, p.Description, p.Price, p.Category, p.Stock); err != nil {
			return fmt.Errorf("failed to insert %s: %w", p.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sample rows: %w", err)
	}
	return nil
}
