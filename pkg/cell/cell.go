package cell

import (
	"github.com/matzehuels/tetris/pkg/abstract"
	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/geom"
	"github.com/matzehuels/tetris/pkg/iface"
	"github.com/matzehuels/tetris/pkg/observability"
	"github.com/matzehuels/tetris/pkg/outline"
	"github.com/matzehuels/tetris/pkg/ptr"
	"github.com/matzehuels/tetris/pkg/raw"
)

// Cell is a named collection of views. Nil fields are absent views.
type Cell struct {
	Name      string
	Interface *iface.Bundle
	Abstract  *abstract.Abstract
	Layout    *Layout
	// Raw may coexist with Layout. Cells normally carry one or the other.
	Raw *RawLayoutPtr
}

// New creates an empty Cell.
func New(name string) *Cell {
	return &Cell{Name: name}
}

// FromViews creates a Cell and adds views in order; later views of the same
// kind replace earlier ones.
func FromViews(name string, views ...View) *Cell {
	c := New(name)
	for _, v := range views {
		c.AddView(v)
	}
	return c
}

// FromView creates a single-view Cell named after the view.
// For raw views the name is read from the raw cell under shared access, and
// a failure to acquire it is returned rather than raised.
func FromView(v View) (*Cell, error) {
	var name string
	switch v := v.(type) {
	case InterfaceView:
		name = v.Name
	case AbstractView:
		name = v.Name
	case *Layout:
		if v == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "nil %s view", v.Kind())
		}
		name = v.Name
	case *RawLayoutPtr:
		if v == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "nil %s view", v.Kind())
		}
		n, err := ptr.Get(v.Cell, func(rc *raw.Cell) (string, error) { return rc.Name, nil })
		if err != nil {
			observability.Cells().OnAccessFailure("raw cell", err)
			return nil, errors.Context(err, "reading raw cell name")
		}
		name = n
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported view %T", v)
	}
	c := New(name)
	c.AddView(v)
	return c, nil
}

// AddView stores v in the slot for its kind, replacing any previous value.
// It reports whether a view was replaced. Nil views are ignored.
func (c *Cell) AddView(v View) (replaced bool) {
	switch v := v.(type) {
	case InterfaceView:
		replaced = c.Interface != nil
		b := iface.Bundle(v)
		c.Interface = &b
	case AbstractView:
		replaced = c.Abstract != nil
		a := abstract.Abstract(v)
		c.Abstract = &a
	case *Layout:
		if v == nil {
			return false
		}
		replaced = c.Layout != nil
		c.Layout = v
	case *RawLayoutPtr:
		if v == nil {
			return false
		}
		replaced = c.Raw != nil
		c.Raw = v
	default:
		return false
	}
	observability.Cells().OnViewAdded(c.Name, v.Kind().String(), replaced)
	return replaced
}

// Views lists the kinds present, in resolution priority order
// (abstract, layout, raw) followed by interface.
func (c *Cell) Views() []ViewKind {
	var kinds []ViewKind
	if c.Abstract != nil {
		kinds = append(kinds, KindAbstract)
	}
	if c.Layout != nil {
		kinds = append(kinds, KindLayout)
	}
	if c.Raw != nil {
		kinds = append(kinds, KindRaw)
	}
	if c.Interface != nil {
		kinds = append(kinds, KindInterface)
	}
	return kinds
}

// dimensions returns the outline and metal count of the highest-priority
// geometric view.
func (c *Cell) dimensions() (outline.Outline, int, ViewKind, error) {
	switch {
	case c.Abstract != nil:
		return c.Abstract.Outline, c.Abstract.Metals, KindAbstract, nil
	case c.Layout != nil:
		return c.Layout.Outline, c.Layout.Metals, KindLayout, nil
	case c.Raw != nil:
		return c.Raw.Outline, c.Raw.Metals, KindRaw, nil
	}
	return outline.Outline{}, 0, 0, errors.New(errors.ErrCodeValidation,
		"cell %q has no abstract, layout or raw view", c.Name)
}

// Outline returns the outline of the highest-priority geometric view.
func (c *Cell) Outline() (outline.Outline, error) {
	o, _, _, err := c.dimensions()
	return o, err
}

// Metals returns the metal-layer count of the highest-priority geometric view.
func (c *Cell) Metals() (int, error) {
	_, m, _, err := c.dimensions()
	return m, err
}

// TopMetal returns the index of the cell's top metal layer.
// ok is false when the cell uses no metal layers.
func (c *Cell) TopMetal() (layer int, ok bool, err error) {
	m, err := c.Metals()
	if err != nil {
		return 0, false, err
	}
	if m == 0 {
		return 0, false, nil
	}
	return m - 1, true, nil
}

// BoundBoxSize returns the outline's maximum extents.
func (c *Cell) BoundBoxSize() (geom.Xy, error) {
	o, err := c.Outline()
	if err != nil {
		return geom.Xy{}, err
	}
	return o.Max(), nil
}

// GeometrySource reports which view answers Outline and Metals.
func (c *Cell) GeometrySource() (ViewKind, error) {
	_, _, k, err := c.dimensions()
	return k, err
}
