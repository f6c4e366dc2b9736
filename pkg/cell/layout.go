package cell

import (
	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/geom"
	"github.com/matzehuels/tetris/pkg/outline"
	"github.com/matzehuels/tetris/pkg/place"
	"github.com/matzehuels/tetris/pkg/ptr"
	"github.com/matzehuels/tetris/pkg/raw"
	"github.com/matzehuels/tetris/pkg/stack"
)

// Layout is a cell implementation built from child instances and
// net-to-track assignments.
type Layout struct {
	Name    string
	Metals  int             // Number of metal layers used
	Outline outline.Outline // Measured in pitches of the layer stack

	Instances   []*Instance
	Assignments []stack.Assign
	Cuts        []stack.TrackIntersection
	Places      []place.Placeable
}

// NewLayout creates a Layout with empty instance, assignment, cut and place
// lists.
func NewLayout(name string, metals int, o outline.Outline) *Layout {
	return &Layout{
		Name:        name,
		Metals:      metals,
		Outline:     o,
		Instances:   []*Instance{},
		Assignments: []stack.Assign{},
		Cuts:        []stack.TrackIntersection{},
		Places:      []place.Placeable{},
	}
}

// LayoutConfig carries the fields of a Layout for one-shot construction.
// Name, Metals and Outline are required; nil lists default to empty.
type LayoutConfig struct {
	Name    string
	Metals  int
	Outline outline.Outline

	Instances   []*Instance
	Assignments []stack.Assign
	Cuts        []stack.TrackIntersection
	Places      []place.Placeable
}

// Build creates the Layout described by cfg.
func (cfg LayoutConfig) Build() *Layout {
	l := NewLayout(cfg.Name, cfg.Metals, cfg.Outline)
	if cfg.Instances != nil {
		l.Instances = cfg.Instances
	}
	if cfg.Assignments != nil {
		l.Assignments = cfg.Assignments
	}
	if cfg.Cuts != nil {
		l.Cuts = cfg.Cuts
	}
	if cfg.Places != nil {
		l.Places = cfg.Places
	}
	return l
}

// Assign appends an assignment of net to the given track intersection.
// Duplicates are kept.
func (l *Layout) Assign(net string, layer, track, at int, relz stack.RelZ) {
	l.Assignments = append(l.Assignments, stack.Assign{
		Net: net,
		At:  stack.TrackIntersection{Layer: layer, Track: track, At: at, RelZ: relz},
	})
}

// Cut appends a track cut.
func (l *Layout) Cut(layer, track, at int, relz stack.RelZ) {
	l.Cuts = append(l.Cuts, stack.TrackIntersection{Layer: layer, Track: track, At: at, RelZ: relz})
}

// Net returns a handle for chaining assignments to one net.
func (l *Layout) Net(name string) *NetHandle {
	return &NetHandle{name: name, parent: l}
}

// AddInstance appends inst and returns it.
func (l *Layout) AddInstance(inst *Instance) *Instance {
	l.Instances = append(l.Instances, inst)
	return inst
}

// Place appends a generic placeable object.
func (l *Layout) Place(p place.Placeable) {
	l.Places = append(l.Places, p)
}

// Instance returns the first instance with the given name.
func (l *Layout) Instance(name string) (*Instance, bool) {
	for _, inst := range l.Instances {
		if inst.Name == name {
			return inst, true
		}
	}
	return nil, false
}

// InstanceExtent returns the union of all instance bounding boxes.
// It fails with ErrCodeValidation for a layout without instances.
func (l *Layout) InstanceExtent() (geom.BoundBox, error) {
	if len(l.Instances) == 0 {
		return geom.BoundBox{}, errors.New(errors.ErrCodeValidation, "layout %q has no instances", l.Name)
	}
	var out geom.BoundBox
	for i, inst := range l.Instances {
		bb, err := inst.BoundBox()
		if err != nil {
			return geom.BoundBox{}, errors.Context(err, "layout %q", l.Name)
		}
		if i == 0 {
			out = bb
			continue
		}
		out = out.Union(bb)
	}
	return out, nil
}

// NetHandle chains assignments to a single net.
// It writes through to its parent immediately and should not be kept
// beyond the expression that created it.
//
//	lay.Net("VDD").At(1, 3, 0, stack.Before).At(1, 4, 0, stack.After)
type NetHandle struct {
	name   string
	parent *Layout
}

// At assigns the handle's net at the given coordinates and returns the
// handle for chaining.
func (h *NetHandle) At(layer, track, at int, relz stack.RelZ) *NetHandle {
	h.parent.Assign(h.name, layer, track, at, relz)
	return h
}

// RawLayoutPtr points at a raw (library, cell) pair and carries enough
// outline and metal information to place it without reading the raw
// content.
type RawLayoutPtr struct {
	Outline outline.Outline
	Metals  int
	Lib     *ptr.Ptr[raw.Library]
	Cell    *ptr.Ptr[raw.Cell]
}
