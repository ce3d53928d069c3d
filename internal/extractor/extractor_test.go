package extractor

import (
	"testing"

	"github.com/dkooll/mcpbridge/pkg/form"
	"github.com/stretchr/testify/require"
)

func TestCoordinateExtractsInOrder(t *testing.T) {
	c := NewCoordinate()
	msg := `坐标(10,20)处填入"Hello" 坐标(30,40)处填入"World" pdf`

	require.True(t, c.Triggered(msg))
	require.Equal(t, []form.Field{
		{Name: "field0", X: 10, Y: 20, Text: "Hello"},
		{Name: "field1", X: 30, Y: 40, Text: "World"},
	}, c.Extract(msg))
}

func TestCoordinateTriggerIsCaseInsensitive(t *testing.T) {
	c := NewCoordinate()

	require.True(t, c.Triggered("please fill the PDF"))
	require.True(t, c.Triggered("Pdf"))
	require.False(t, c.Triggered("SELECT * FROM products"))
}

func TestCoordinateNoMatches(t *testing.T) {
	c := NewCoordinate()

	require.Empty(t, c.Extract("pdf but nothing to place"))
	// Quotes are required, spaces inside the parentheses are not allowed.
	require.Empty(t, c.Extract(`pdf 坐标(10,20)处填入Hello`))
	require.Empty(t, c.Extract(`pdf 坐标(10, 20)处填入"Hello"`))
	require.Empty(t, c.Extract(`pdf 坐标(-1,20)处填入"Hello"`))
	require.Empty(t, c.Extract(`pdf 坐标(1,2)处填入""`))
}

func TestCoordinateKeepsPayloadVerbatim(t *testing.T) {
	c := NewCoordinate()

	fields := c.Extract(`pdf 坐标(5,6)处填入"张三 & co."坐标(7,8)处填入"x"`)
	require.Len(t, fields, 2)
	require.Equal(t, "张三 & co.", fields[0].Text)
	require.Equal(t, form.Field{Name: "field1", X: 7, Y: 8, Text: "x"}, fields[1])
}

func TestCoordinateOverflowKeepsMatchNames(t *testing.T) {
	c := NewCoordinate()

	fields := c.Extract(`pdf 坐标(1,2)处填入"a" 坐标(99999999999999999999,3)处填入"b" 坐标(4,5)处填入"c"`)
	require.Equal(t, []form.Field{
		{Name: "field0", X: 1, Y: 2, Text: "a"},
		{Name: "field2", X: 4, Y: 5, Text: "c"},
	}, fields)
}
