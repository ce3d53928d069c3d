// Package schema keeps the table descriptions the agent is told about and
// performs a shallow column check on incoming queries.
package schema

import (
	"fmt"
	"strings"
)

type Column struct {
	Name string
	Type string
}

type Descriptor struct {
	Table       string
	Columns     []Column
	Description string
}

// HasColumn reports whether name is a declared column, ignoring case.
func (d Descriptor) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// Registry holds descriptors in registration order. Registering a table that
// already exists replaces its descriptor but keeps its position.
type Registry struct {
	order  []string
	tables map[string]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]Descriptor)}
}

// NewDefaultRegistry returns a registry seeded with the products catalog.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Products())
	return r
}

// Products describes the built-in catalog table.
func Products() Descriptor {
	return Descriptor{
		Table: "products",
		Columns: []Column{
			{Name: "id", Type: "INTEGER"},
			{Name: "title", Type: "TEXT"},
			{Name: "description", Type: "TEXT"},
			{Name: "price", Type: "REAL"},
			{Name: "category", Type: "TEXT"},
			{Name: "stock", Type: "INTEGER"},
			{Name: "created_at", Type: "DATETIME"},
		},
		Description: "Product catalog with items for sale",
	}
}

func (r *Registry) Register(d Descriptor) {
	if _, ok := r.tables[d.Table]; !ok {
		r.order = append(r.order, d.Table)
	}
	d.Columns = dedupeColumns(d.Columns)
	r.tables[d.Table] = d
}

func (r *Registry) Tables() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tables[name])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

// DescribeAll renders every table as a description line followed by one line
// per column. Blocks are separated by a blank line.
func (r *Registry) DescribeAll() string {
	parts := make([]string, 0, len(r.order))
	for _, d := range r.Tables() {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Table %s: %s", d.Table, d.Description))
		for _, c := range d.Columns {
			text.WriteString(fmt.Sprintf("\n  - %s (%s)", c.Name, c.Type))
		}
		parts = append(parts, text.String())
	}
	return strings.Join(parts, "\n\n")
}

// Validate is a token heuristic, not a parser. For each registered table
// named anywhere in the query, every whitespace token of the form
// table.column must name a declared column of that table. Punctuation stays
// attached to the token, so "products.price," is rejected.
func (r *Registry) Validate(query string) bool {
	lowered := strings.ToLower(query)
	words := strings.Fields(lowered)

	for _, d := range r.Tables() {
		table := strings.ToLower(d.Table)
		if !strings.Contains(lowered, table) {
			continue
		}
		for _, word := range words {
			prefix, column, ok := strings.Cut(word, ".")
			if !ok {
				continue
			}
			if prefix == table && !d.HasColumn(column) {
				return false
			}
		}
	}
	return true
}

func dedupeColumns(cols []Column) []Column {
	seen := make(map[string]int, len(cols))
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if i, ok := seen[c.Name]; ok {
			out[i] = c
			continue
		}
		seen[c.Name] = len(out)
		out = append(out, c)
	}
	return out
}
