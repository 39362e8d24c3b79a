package render_object

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-shadow/engine/model"
)

// ShapeKind selects the canonical geometry a RenderObject is created from.
type ShapeKind int

const (
	// ShapeCube is a 2x2x2 cube centered on its origin.
	ShapeCube ShapeKind = iota

	// ShapePyramid is a square pyramid with a 2x2 base.
	ShapePyramid
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCube:
		return "cube"
	case ShapePyramid:
		return "pyramid"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Model returns the canonical geometry for the shape.
//
// Returns:
//   - model.Model: the shape's vertices
//   - error: an error if the shape kind is unknown
func (k ShapeKind) Model() (model.Model, error) {
	switch k {
	case ShapeCube:
		return model.Cube(), nil
	case ShapePyramid:
		return model.Pyramid(), nil
	default:
		return nil, fmt.Errorf("unknown shape kind %d", int(k))
	}
}

// ParseShapeKind parses a shape name as produced by ShapeKind.String, ignoring case.
//
// Parameters:
//   - name: "cube" or "pyramid"
//
// Returns:
//   - ShapeKind: the parsed kind
//   - error: an error if the name is not a known shape
func ParseShapeKind(name string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cube":
		return ShapeCube, nil
	case "pyramid":
		return ShapePyramid, nil
	default:
		return 0, fmt.Errorf("unknown shape %q", name)
	}
}
