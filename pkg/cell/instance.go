package cell

import (
	"fmt"

	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/geom"
	"github.com/matzehuels/tetris/pkg/observability"
	"github.com/matzehuels/tetris/pkg/place"
	"github.com/matzehuels/tetris/pkg/ptr"
)

// Instance is a placed reference to another Cell.
type Instance struct {
	Name string
	Cell *ptr.Ptr[Cell]
	// Loc is the instance origin. The origin stays fixed under reflection.
	Loc          place.Place
	ReflectHoriz bool
	ReflectVert  bool
}

// Reflected reports whether the instance is reflected along dir.
func (i *Instance) Reflected(dir geom.Dir) bool {
	if dir == geom.Vert {
		return i.ReflectVert
	}
	return i.ReflectHoriz
}

// BoundBoxSize returns the referenced cell's size, i.e. the zero-origin
// extent of the instance.
func (i *Instance) BoundBoxSize() (geom.Xy, error) {
	size, err := ptr.Get(i.Cell, (*Cell).BoundBoxSize)
	if err != nil {
		i.reportAccess(err)
		return geom.Xy{}, errors.Context(err, "instance %q", i.Name)
	}
	return size, nil
}

// BoundBox returns the rectangle the instance occupies.
// The placement must resolve to absolute coordinates.
func (i *Instance) BoundBox() (geom.BoundBox, error) {
	loc, err := i.Loc.Abs()
	if err != nil {
		return geom.BoundBox{}, errors.Context(err, "instance %q", i.Name)
	}
	size, err := i.BoundBoxSize()
	if err != nil {
		return geom.BoundBox{}, err
	}

	x0, x1 := loc.X, loc.X+size.X
	if i.ReflectHoriz {
		x0, x1 = loc.X-size.X, loc.X
	}
	y0, y1 := loc.Y, loc.Y+size.Y
	if i.ReflectVert {
		y0, y1 = loc.Y-size.Y, loc.Y
	}
	return geom.NewBoundBox(geom.NewXy(x0, y0), geom.NewXy(x1, y1)), nil
}

// CellName returns the name of the referenced cell.
func (i *Instance) CellName() (string, error) {
	name, err := ptr.Get(i.Cell, func(c *Cell) (string, error) { return c.Name, nil })
	if err != nil {
		i.reportAccess(err)
		return "", errors.Context(err, "instance %q", i.Name)
	}
	return name, nil
}

func (i *Instance) reportAccess(err error) {
	switch errors.GetCode(err) {
	case errors.ErrCodeLockPoisoned, errors.ErrCodeLockUnavailable, errors.ErrCodeInvalidInput:
		observability.Cells().OnAccessFailure(i.Name, err)
	}
}

// String renders the instance for diagnostics. The cell name is read
// without blocking and shows as <unavailable> when the cell is locked,
// poisoned or missing.
func (i *Instance) String() string {
	cellName := "<unavailable>"
	_ = i.Cell.TryRead(func(c *Cell) error {
		cellName = c.Name
		return nil
	})
	return fmt.Sprintf("Instance(name=%s, cell=%s, loc=%s)", i.Name, cellName, i.Loc)
}
