// Package outline describes the "tetris" shapes that bound a cell.
//
// An outline is a staircase anchored at the origin. Step i spans
// x in [0, X[i]] and y in [Y[i-1], Y[i]] (with Y[-1] = 0), so X must be
// strictly decreasing and Y strictly increasing. Rectangles are the
// single-step case.
package outline

import (
	"fmt"

	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/geom"
)

// Outline is a staircase shape in primitive pitches.
type Outline struct {
	X []geom.PrimPitches
	Y []geom.PrimPitches
}

// New creates an outline from its step vectors.
func New(x, y []geom.PrimPitches) (Outline, error) {
	if len(x) == 0 || len(x) != len(y) {
		return Outline{}, errors.New(errors.ErrCodeInvalidOutline,
			"outline needs equal, non-zero step counts (got x=%d, y=%d)", len(x), len(y))
	}
	for i := range x {
		if x[i] <= 0 || y[i] <= 0 {
			return Outline{}, errors.New(errors.ErrCodeInvalidOutline, "outline step %d is not positive", i)
		}
		if i > 0 && x[i] >= x[i-1] {
			return Outline{}, errors.New(errors.ErrCodeInvalidOutline, "outline x must strictly decrease at step %d", i)
		}
		if i > 0 && y[i] <= y[i-1] {
			return Outline{}, errors.New(errors.ErrCodeInvalidOutline, "outline y must strictly increase at step %d", i)
		}
	}
	return Outline{X: append([]geom.PrimPitches(nil), x...), Y: append([]geom.PrimPitches(nil), y...)}, nil
}

// Rect creates a rectangular outline.
func Rect(x, y geom.PrimPitches) Outline {
	return Outline{X: []geom.PrimPitches{x}, Y: []geom.PrimPitches{y}}
}

// XMax returns the widest x extent.
func (o Outline) XMax() geom.PrimPitches {
	if len(o.X) == 0 {
		return 0
	}
	return o.X[0]
}

// YMax returns the tallest y extent.
func (o Outline) YMax() geom.PrimPitches {
	if len(o.Y) == 0 {
		return 0
	}
	return o.Y[len(o.Y)-1]
}

// Max returns (XMax, YMax).
func (o Outline) Max() geom.Xy { return geom.NewXy(o.XMax(), o.YMax()) }

// IsRect reports whether the outline has a single step.
func (o Outline) IsRect() bool { return len(o.X) == 1 }

func (o Outline) String() string {
	if o.IsRect() {
		return fmt.Sprintf("%dx%d", o.XMax(), o.YMax())
	}
	return fmt.Sprintf("tetris(x=%v, y=%v)", o.X, o.Y)
}
