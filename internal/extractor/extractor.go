// Package extractor turns free-form messages into PDF field placements.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dkooll/mcpbridge/pkg/form"
)

// Strategy recognises one trigger grammar. Triggered decides whether the
// message is a fill request at all; Extract returns the fields in order of
// appearance, or none.
type Strategy interface {
	Name() string
	Triggered(message string) bool
	Extract(message string) []form.Field
}

// CoordinatePattern matches 坐标(x,y)处填入"text" ("at coordinate (x,y) fill in text").
var CoordinatePattern = regexp.MustCompile(`坐标\((\d+),(\d+)\)处填入"([^"]+)"`)

// Coordinate fires on messages mentioning pdf and reads every
// 坐标(x,y)处填入"text" occurrence.
type Coordinate struct {
	Keyword string
}

func NewCoordinate() *Coordinate {
	return &Coordinate{Keyword: "pdf"}
}

func (c *Coordinate) Name() string {
	return "coordinate"
}

func (c *Coordinate) Triggered(message string) bool {
	return strings.Contains(strings.ToLower(message), strings.ToLower(c.Keyword))
}

func (c *Coordinate) Extract(message string) []form.Field {
	matches := CoordinatePattern.FindAllStringSubmatch(message, -1)
	if len(matches) == 0 {
		return nil
	}

	fields := make([]form.Field, 0, len(matches))
	for i, m := range matches {
		x, errX := strconv.Atoi(m[1])
		y, errY := strconv.Atoi(m[2])
		if errX != nil || errY != nil {
			// Coordinates beyond int range cannot land on a page. The field
			// is skipped but names stay tied to the match position.
			continue
		}
		fields = append(fields, form.Field{
			Name: form.FieldName(i),
			X:    x,
			Y:    y,
			Text: m[3],
		})
	}
	return fields
}
