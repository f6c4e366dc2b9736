// Package geom provides the integer coordinate types used for cell placement.
//
// All lengths are counted in primitive pitches of the layout grid, so the
// arithmetic here is exact. A [BoundBox] is always stored with P0 at the
// lower-left and P1 at the upper-right corner.
package geom

import "fmt"

// PrimPitches is a length measured in primitive grid pitches.
type PrimPitches int64

// Dir names one of the two layout axes.
type Dir int

const (
	// Horiz is the x axis.
	Horiz Dir = iota
	// Vert is the y axis.
	Vert
)

// String returns "horiz" or "vert".
func (d Dir) String() string {
	if d == Vert {
		return "vert"
	}
	return "horiz"
}

// Other returns the perpendicular axis.
func (d Dir) Other() Dir {
	if d == Vert {
		return Horiz
	}
	return Vert
}

// Xy is a point (or extent) on the pitch grid.
type Xy struct {
	X PrimPitches `json:"x" toml:"x"`
	Y PrimPitches `json:"y" toml:"y"`
}

// NewXy creates a new Xy.
func NewXy(x, y PrimPitches) Xy { return Xy{X: x, Y: y} }

// Add returns the component-wise sum.
func (p Xy) Add(o Xy) Xy { return Xy{X: p.X + o.X, Y: p.Y + o.Y} }

// Sub returns the component-wise difference.
func (p Xy) Sub(o Xy) Xy { return Xy{X: p.X - o.X, Y: p.Y - o.Y} }

// Neg negates both components.
func (p Xy) Neg() Xy { return Xy{X: -p.X, Y: -p.Y} }

// Get returns the component along dir.
func (p Xy) Get(dir Dir) PrimPitches {
	if dir == Vert {
		return p.Y
	}
	return p.X
}

func (p Xy) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// BoundBox is an axis-aligned rectangle.
type BoundBox struct {
	P0 Xy `json:"p0"`
	P1 Xy `json:"p1"`
}

// NewBoundBox creates a BoundBox from any two opposite corners.
func NewBoundBox(a, b Xy) BoundBox {
	return BoundBox{
		P0: Xy{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		P1: Xy{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// Size returns the width and height of the box.
func (b BoundBox) Size() Xy { return b.P1.Sub(b.P0) }

// IsEmpty reports whether the box has zero area.
func (b BoundBox) IsEmpty() bool { return b.P0.X == b.P1.X || b.P0.Y == b.P1.Y }

// Contains reports whether p lies inside or on the edge of the box.
func (b BoundBox) Contains(p Xy) bool {
	return p.X >= b.P0.X && p.X <= b.P1.X && p.Y >= b.P0.Y && p.Y <= b.P1.Y
}

// Union returns the smallest box enclosing both b and o.
func (b BoundBox) Union(o BoundBox) BoundBox {
	return BoundBox{
		P0: Xy{X: min(b.P0.X, o.P0.X), Y: min(b.P0.Y, o.P0.Y)},
		P1: Xy{X: max(b.P1.X, o.P1.X), Y: max(b.P1.Y, o.P1.Y)},
	}
}

func (b BoundBox) String() string { return fmt.Sprintf("[%s, %s]", b.P0, b.P1) }
