package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateProductsColumns(t *testing.T) {
	reg := NewDefaultRegistry()

	require.True(t, reg.Validate("SELECT products.price FROM products"))
	require.False(t, reg.Validate("SELECT products.nonexistent_column FROM products"))
	require.True(t, reg.Validate("SELECT PRODUCTS.PRICE FROM PRODUCTS"))
}

func TestValidateIgnoresUnrelatedTables(t *testing.T) {
	reg := NewDefaultRegistry()

	// orders is not registered, so its dotted references are not checked.
	require.True(t, reg.Validate("SELECT orders.whatever FROM orders"))
	// Aliases are invisible to the heuristic.
	require.True(t, reg.Validate("SELECT p.nonexistent FROM products p"))
}

func TestValidateKeepsPunctuationInToken(t *testing.T) {
	reg := NewDefaultRegistry()

	require.False(t, reg.Validate("SELECT products.price, products.title FROM products"))
	require.True(t, reg.Validate("SELECT products.title , products.price FROM products"))
}

func TestValidateMultipleDots(t *testing.T) {
	reg := NewDefaultRegistry()

	require.True(t, reg.Validate("SELECT main.products.price FROM main.products"))
	require.False(t, reg.Validate("SELECT products.a.b FROM products"))
}

func TestRegisterOverwritesInPlace(t *testing.T) {
	reg := NewDefaultRegistry()
	reg.Register(Descriptor{
		Table:       "orders",
		Description: "Customer orders",
		Columns:     []Column{{Name: "id", Type: "INTEGER"}, {Name: "total", Type: "REAL"}},
	})
	reg.Register(Descriptor{
		Table:       "products",
		Description: "Trimmed catalog",
		Columns:     []Column{{Name: "id", Type: "INTEGER"}},
	})

	tables := reg.Tables()
	require.Len(t, tables, 2)
	require.Equal(t, "products", tables[0].Table)
	require.Equal(t, "Trimmed catalog", tables[0].Description)
	require.Equal(t, "orders", tables[1].Table)

	require.False(t, reg.Validate("SELECT products.price FROM products"))
	require.True(t, reg.Validate("SELECT orders.total FROM orders"))
}

func TestRegisterDropsDuplicateColumns(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Descriptor{
		Table: "t",
		Columns: []Column{
			{Name: "a", Type: "TEXT"},
			{Name: "b", Type: "TEXT"},
			{Name: "a", Type: "INTEGER"},
		},
	})

	tables := reg.Tables()
	require.Len(t, tables, 1)
	require.Equal(t, []Column{{Name: "a", Type: "INTEGER"}, {Name: "b", Type: "TEXT"}}, tables[0].Columns)
}

func TestDescribeAll(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Descriptor{
		Table:       "a",
		Description: "first",
		Columns:     []Column{{Name: "id", Type: "INTEGER"}, {Name: "name", Type: "TEXT"}},
	})
	reg.Register(Descriptor{
		Table:       "b",
		Description: "second",
		Columns:     []Column{{Name: "x", Type: "REAL"}},
	})

	want := "Table a: first\n  - id (INTEGER)\n  - name (TEXT)\n\nTable b: second\n  - x (REAL)"
	require.Equal(t, want, reg.DescribeAll())
	require.Equal(t, want, reg.DescribeAll())
}
