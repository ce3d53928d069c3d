// Package form defines shared data structures for coordinate based PDF filling.
package form

import "fmt"

// Field places literal text with its baseline at (X, Y), measured in points
// from the bottom-left corner of the page.
type Field struct {
	Name string `json:"name,omitempty"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Text string `json:"text"`
}

// FieldName returns the conventional key for the i-th extracted field.
func FieldName(i int) string {
	return fmt.Sprintf("field%d", i)
}

// Named assigns field0, field1, ... to fields that have no name yet.
func Named(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			f.Name = FieldName(i)
		}
		out[i] = f
	}
	return out
}

func (f Field) Validate() error {
	if f.X < 0 || f.Y < 0 {
		return fmt.Errorf("field %s: coordinates must be non-negative, got (%d,%d)", f.Name, f.X, f.Y)
	}
	return nil
}
