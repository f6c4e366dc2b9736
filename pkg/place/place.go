// Package place models absolute and relative placement of layout objects.
//
// A [Place] is either an absolute [geom.Xy] or a [Rel] description naming
// an anchor. Turning relative places into coordinates is the job of an
// external placement pass, which records its answer with [Place.Resolve].
// Until then [Place.Abs] fails with [errors.ErrCodeUnresolvedPlace].
package place

import (
	"fmt"

	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/geom"
)

// Side selects which edge of the anchor a relative place attaches to.
type Side int

const (
	Left Side = iota
	Right
	Bottom
	Top
)

var sideNames = [...]string{"left", "right", "bottom", "top"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// Rel is a placement relative to another named object.
type Rel struct {
	Of     string  // Name of the anchor object
	Side   Side    // Edge of the anchor
	Offset geom.Xy // Extra displacement after attaching

	resolved *geom.Xy
}

// Place is an absolute coordinate or a relative placement.
// The zero value is the absolute origin.
type Place struct {
	abs geom.Xy
	rel *Rel
}

// AbsAt creates an absolute place.
func AbsAt(xy geom.Xy) Place { return Place{abs: xy} }

// Relative creates a relative place.
func Relative(r Rel) Place {
	r.resolved = nil
	return Place{rel: &r}
}

// IsRel reports whether p was specified relative to an anchor.
func (p Place) IsRel() bool { return p.rel != nil }

// Rel returns a copy of the relative placement, or nil for absolute places.
func (p Place) Rel() *Rel {
	if p.rel == nil {
		return nil
	}
	r := *p.rel
	return &r
}

// Resolved reports whether p can produce an absolute coordinate.
func (p Place) Resolved() bool { return p.rel == nil || p.rel.resolved != nil }

// Abs returns the absolute coordinate of p.
// Relative places fail until they have been resolved.
func (p Place) Abs() (geom.Xy, error) {
	if p.rel == nil {
		return p.abs, nil
	}
	if p.rel.resolved == nil {
		return geom.Xy{}, errors.New(errors.ErrCodeUnresolvedPlace,
			"relative place (%s of %q) has not been resolved", p.rel.Side, p.rel.Of)
	}
	return *p.rel.resolved, nil
}

// Resolve records the absolute coordinate computed for a relative place.
// Only p is updated; copies of p taken earlier stay as they were.
// It is a no-op for absolute places.
func (p *Place) Resolve(at geom.Xy) {
	if p.rel == nil {
		return
	}
	r := *p.rel
	r.resolved = &at
	p.rel = &r
}

func (p Place) String() string {
	if p.rel == nil {
		return fmt.Sprintf("Abs%s", p.abs)
	}
	if p.rel.resolved != nil {
		return fmt.Sprintf("Rel(%s of %q%s => %s)", p.rel.Side, p.rel.Of, offsetSuffix(p.rel.Offset), *p.rel.resolved)
	}
	return fmt.Sprintf("Rel(%s of %q%s)", p.rel.Side, p.rel.Of, offsetSuffix(p.rel.Offset))
}

func offsetSuffix(o geom.Xy) string {
	if o == (geom.Xy{}) {
		return ""
	}
	return fmt.Sprintf(" + %s", o)
}

// Placeable is a generic named object positioned within a layout.
type Placeable struct {
	Name string
	Loc  Place
}
