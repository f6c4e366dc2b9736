// Package config loads TOML design descriptions into a cell library.
//
// A design lists cells with any of their four views. Instances name their
// target cell, so cells may be declared in any order; instances are wired
// after every cell exists, through library.Library.Instantiate, which
// rejects cyclic hierarchies.
//
//	library = "demo"
//
//	[[cells]]
//	name = "inv"
//	  [cells.abstract]
//	  metals = 2
//	  outline = { x = [4], y = [6] }
//
//	[[cells]]
//	name = "top"
//	  [cells.layout]
//	  metals = 4
//	  outline = { x = [20], y = [10] }
//	  [[cells.layout.instances]]
//	  name = "i0"
//	  cell = "inv"
//	  at = { x = 0, y = 0 }
//	  [[cells.layout.nets]]
//	  name = "VDD"
//	  at = [{ layer = 1, track = 3, at = 0, relz = "before" }]
package config

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tetris/pkg/abstract"
	"github.com/matzehuels/tetris/pkg/cell"
	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/geom"
	"github.com/matzehuels/tetris/pkg/iface"
	"github.com/matzehuels/tetris/pkg/library"
	"github.com/matzehuels/tetris/pkg/outline"
	"github.com/matzehuels/tetris/pkg/place"
	"github.com/matzehuels/tetris/pkg/ptr"
	"github.com/matzehuels/tetris/pkg/raw"
	"github.com/matzehuels/tetris/pkg/stack"
)

// Design is the top-level TOML document.
type Design struct {
	Library string     `toml:"library"`
	Cells   []CellSpec `toml:"cells"`
}

// CellSpec describes one cell and its views.
type CellSpec struct {
	Name      string         `toml:"name"`
	Interface *InterfaceSpec `toml:"interface"`
	Abstract  *AbstractSpec  `toml:"abstract"`
	Layout    *LayoutSpec    `toml:"layout"`
	Raw       *RawSpec       `toml:"raw"`
}

// InterfaceSpec describes an interface bundle.
type InterfaceSpec struct {
	Signals []SignalSpec `toml:"signals"`
}

// SignalSpec is one interface signal.
type SignalSpec struct {
	Name  string `toml:"name"`
	Width int    `toml:"width"`
}

// OutlineSpec is a staircase outline.
type OutlineSpec struct {
	X []int64 `toml:"x"`
	Y []int64 `toml:"y"`
}

// AbstractSpec describes an abstract view.
type AbstractSpec struct {
	Metals  int         `toml:"metals"`
	Outline OutlineSpec `toml:"outline"`
	Ports   []PortSpec  `toml:"ports"`
}

// PortSpec is one abstract port.
type PortSpec struct {
	Name  string `toml:"name"`
	Layer int    `toml:"layer"`
}

// RawSpec points at a cell of an external library.
type RawSpec struct {
	Library string      `toml:"library"`
	Cell    string      `toml:"cell"`
	Metals  int         `toml:"metals"`
	Outline OutlineSpec `toml:"outline"`
}

// LayoutSpec describes a layout view.
type LayoutSpec struct {
	Metals    int            `toml:"metals"`
	Outline   OutlineSpec    `toml:"outline"`
	Instances []InstanceSpec `toml:"instances"`
	Nets      []NetSpec      `toml:"nets"`
	Cuts      []TrackSpec    `toml:"cuts"`
	Places    []PlaceSpec    `toml:"places"`
}

// InstanceSpec places a child cell. Exactly one of At and Rel is set.
type InstanceSpec struct {
	Name         string   `toml:"name"`
	Cell         string   `toml:"cell"`
	At           *geom.Xy `toml:"at"`
	Rel          *RelSpec `toml:"rel"`
	ReflectHoriz bool     `toml:"reflect_horiz"`
	ReflectVert  bool     `toml:"reflect_vert"`
}

// RelSpec is a relative placement.
type RelSpec struct {
	Of     string  `toml:"of"`
	Side   string  `toml:"side"`
	Offset geom.Xy `toml:"offset"`
}

// NetSpec assigns one net to a list of track intersections.
type NetSpec struct {
	Name string      `toml:"name"`
	At   []TrackSpec `toml:"at"`
}

// TrackSpec is a track intersection.
type TrackSpec struct {
	Layer int    `toml:"layer"`
	Track int    `toml:"track"`
	At    int    `toml:"at"`
	RelZ  string `toml:"relz"`
}

// PlaceSpec is a named generic placeable.
type PlaceSpec struct {
	Name string   `toml:"name"`
	At   *geom.Xy `toml:"at"`
	Rel  *RelSpec `toml:"rel"`
}

// Decode parses a design from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Design, error) {
	var d Design
	md, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding design")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown keys in design: %s", strings.Join(keys, ", "))
	}
	return &d, nil
}

// LoadFile reads the design at path and builds its library.
func LoadFile(path string) (*library.Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	d, err := Decode(f)
	if err != nil {
		return nil, errors.Context(err, "%s", path)
	}
	return d.Build()
}

// Build creates the library described by d.
func (d *Design) Build() (*library.Library, error) {
	name := d.Library
	if name == "" {
		name = "design"
	}
	lib := library.New(name)
	rawLibs := make(map[string]*ptr.Ptr[raw.Library])

	for _, cs := range d.Cells {
		c, err := cs.cell(rawLibs)
		if err != nil {
			return nil, errors.Context(err, "cell %q", cs.Name)
		}
		if _, _, err := lib.Add(c); err != nil {
			return nil, err
		}
	}

	for _, cs := range d.Cells {
		if cs.Layout == nil {
			continue
		}
		for _, is := range cs.Layout.Instances {
			inst, err := is.instance(lib)
			if err != nil {
				return nil, errors.Context(err, "cell %q", cs.Name)
			}
			if err := lib.Instantiate(cs.Name, inst); err != nil {
				return nil, err
			}
		}
	}
	return lib, nil
}

func (cs CellSpec) cell(rawLibs map[string]*ptr.Ptr[raw.Library]) (*cell.Cell, error) {
	if cs.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cell without a name")
	}
	c := cell.New(cs.Name)

	if cs.Interface != nil {
		b := iface.Bundle{Name: cs.Name}
		for _, s := range cs.Interface.Signals {
			b.Signals = append(b.Signals, iface.Signal{Name: s.Name, Width: max(s.Width, 1)})
		}
		c.AddView(cell.InterfaceView(b))
	}

	if cs.Abstract != nil {
		o, err := cs.Abstract.Outline.outline()
		if err != nil {
			return nil, errors.Context(err, "abstract")
		}
		a := abstract.New(cs.Name, cs.Abstract.Metals, o)
		for _, p := range cs.Abstract.Ports {
			a.Ports = append(a.Ports, abstract.Port{Name: p.Name, Layer: p.Layer})
		}
		c.AddView(cell.AbstractView(a))
	}

	if cs.Layout != nil {
		lay, err := cs.Layout.layout(cs.Name)
		if err != nil {
			return nil, errors.Context(err, "layout")
		}
		c.AddView(lay)
	}

	if cs.Raw != nil {
		o, err := cs.Raw.Outline.outline()
		if err != nil {
			return nil, errors.Context(err, "raw")
		}
		libName := cs.Raw.Library
		lp, ok := rawLibs[libName]
		if !ok {
			lp = ptr.New(raw.Library{Name: libName})
			rawLibs[libName] = lp
		}
		cellName := cs.Raw.Cell
		if cellName == "" {
			cellName = cs.Name
		}
		c.AddView(&cell.RawLayoutPtr{
			Outline: o,
			Metals:  cs.Raw.Metals,
			Lib:     lp,
			Cell:    ptr.New(raw.Cell{Name: cellName}),
		})
	}
	return c, nil
}

func (s OutlineSpec) outline() (outline.Outline, error) {
	x := make([]geom.PrimPitches, len(s.X))
	for i, v := range s.X {
		x[i] = geom.PrimPitches(v)
	}
	y := make([]geom.PrimPitches, len(s.Y))
	for i, v := range s.Y {
		y[i] = geom.PrimPitches(v)
	}
	return outline.New(x, y)
}

// layout builds the layout view without instances; those are wired by
// Build once every cell exists.
func (ls LayoutSpec) layout(name string) (*cell.Layout, error) {
	o, err := ls.Outline.outline()
	if err != nil {
		return nil, err
	}
	lay := cell.NewLayout(name, ls.Metals, o)
	for _, n := range ls.Nets {
		h := lay.Net(n.Name)
		for _, ts := range n.At {
			relz, err := relZ(ts.RelZ)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "net %q", n.Name)
			}
			h.At(ts.Layer, ts.Track, ts.At, relz)
		}
	}
	for _, ts := range ls.Cuts {
		relz, err := relZ(ts.RelZ)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cut")
		}
		lay.Cut(ts.Layer, ts.Track, ts.At, relz)
	}
	for _, ps := range ls.Places {
		loc, err := placement(ps.At, ps.Rel)
		if err != nil {
			return nil, errors.Context(err, "place %q", ps.Name)
		}
		lay.Place(place.Placeable{Name: ps.Name, Loc: loc})
	}
	return lay, nil
}

func (is InstanceSpec) instance(lib *library.Library) (*cell.Instance, error) {
	target, ok := lib.Lookup(is.Cell)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "instance %q refers to unknown cell %q", is.Name, is.Cell)
	}
	loc, err := placement(is.At, is.Rel)
	if err != nil {
		return nil, errors.Context(err, "instance %q", is.Name)
	}
	return &cell.Instance{
		Name:         is.Name,
		Cell:         target,
		Loc:          loc,
		ReflectHoriz: is.ReflectHoriz,
		ReflectVert:  is.ReflectVert,
	}, nil
}

// relZ defaults an omitted relz to before.
func relZ(s string) (stack.RelZ, error) {
	if s == "" {
		return stack.Before, nil
	}
	return stack.ParseRelZ(s)
}

var sides = map[string]place.Side{
	"left":   place.Left,
	"right":  place.Right,
	"bottom": place.Bottom,
	"top":    place.Top,
}

func placement(at *geom.Xy, rel *RelSpec) (place.Place, error) {
	switch {
	case at != nil && rel != nil:
		return place.Place{}, errors.New(errors.ErrCodeInvalidInput, "both at and rel are set")
	case rel != nil:
		side, ok := sides[rel.Side]
		if !ok {
			return place.Place{}, errors.New(errors.ErrCodeInvalidInput, "unknown side %q", rel.Side)
		}
		return place.Relative(place.Rel{Of: rel.Of, Side: side, Offset: rel.Offset}), nil
	case at != nil:
		return place.AbsAt(*at), nil
	}
	return place.AbsAt(geom.Xy{}), nil
}
