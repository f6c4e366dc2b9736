// Package library keeps a named arena of shared cells and the hierarchy
// between them.
//
// Every cell added to a [Library] gets a stable [uuid.UUID] and a shared
// [ptr.Ptr]. Instances are inserted through [Library.Instantiate], which
// checks the hierarchy graph before touching any cell, so a library can
// never hold a cycle. Walking a cyclic cell graph would otherwise deadlock
// on the cells' locks.
package library

import (
	stderrors "errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/tetris/pkg/cell"
	"github.com/matzehuels/tetris/pkg/dag"
	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/geom"
	"github.com/matzehuels/tetris/pkg/observability"
	"github.com/matzehuels/tetris/pkg/ptr"
)

// metaInstance is the edge metadata key holding the instance name.
const metaInstance = "instance"

// Entry describes one cell held by a library.
type Entry struct {
	ID   uuid.UUID
	Name string
	Cell *ptr.Ptr[cell.Cell]
}

// Library is a collection of cells addressed by name or ID.
// It is safe for concurrent use.
type Library struct {
	Name string

	mu     sync.Mutex
	cells  ptr.List[cell.Cell]
	ids    []uuid.UUID
	names  []string
	byName map[string]int
	byID   map[uuid.UUID]int
	graph  *dag.DAG
}

// New creates an empty library.
func New(name string) *Library {
	return &Library{
		Name:   name,
		byName: make(map[string]int),
		byID:   make(map[uuid.UUID]int),
		graph:  dag.New(dag.Metadata{"library": name}),
	}
}

// Add takes ownership of c and returns its ID and shared pointer.
// Instances already present in c's layout must refer to cells of this
// library. Names must be unique.
func (l *Library) Add(c *cell.Cell) (uuid.UUID, *ptr.Ptr[cell.Cell], error) {
	if c == nil || c.Name == "" {
		return uuid.Nil, nil, errors.New(errors.ErrCodeInvalidInput, "cell must have a name")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byName[c.Name]; ok {
		return uuid.Nil, nil, errors.New(errors.ErrCodeDuplicate, "library %q already has a cell named %q", l.Name, c.Name)
	}
	children, err := l.childNames(c.Layout)
	if err != nil {
		return uuid.Nil, nil, errors.Context(err, "adding cell %q", c.Name)
	}

	if err := l.graph.AddNode(dag.Node{ID: c.Name}); err != nil {
		return uuid.Nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "indexing cell %q", c.Name)
	}
	for i, child := range children {
		// A fresh node has no parents, so these edges cannot close a cycle.
		_ = l.graph.AddEdge(dag.Edge{From: c.Name, To: child, Meta: dag.Metadata{metaInstance: c.Layout.Instances[i].Name}})
	}

	id := uuid.New()
	p := l.cells.Add(*c)
	idx := len(l.cells) - 1
	l.ids = append(l.ids, id)
	l.names = append(l.names, c.Name)
	l.byName[c.Name] = idx
	l.byID[id] = idx

	observability.Library().OnCellAdded(l.Name, c.Name)
	return id, p, nil
}

// childNames maps each instance of lay to the library name of its cell.
// Callers must hold l.mu.
func (l *Library) childNames(lay *cell.Layout) ([]string, error) {
	if lay == nil {
		return nil, nil
	}
	names := make([]string, len(lay.Instances))
	for i, inst := range lay.Instances {
		name, err := l.nameOf(inst.Cell)
		if err != nil {
			return nil, errors.Context(err, "instance %q", inst.Name)
		}
		names[i] = name
	}
	return names, nil
}

// nameOf finds the library name of p. Callers must hold l.mu.
func (l *Library) nameOf(p *ptr.Ptr[cell.Cell]) (string, error) {
	idx := l.cells.Index(p)
	if idx < 0 {
		return "", errors.New(errors.ErrCodeNotFound, "cell is not part of library %q", l.Name)
	}
	return l.names[idx], nil
}

// Instantiate appends inst to the layout view of the cell named parent.
// inst.Cell must belong to this library. The insertion is refused with
// ErrCodeCycle if the child already (transitively) instantiates the parent.
func (l *Library) Instantiate(parent string, inst *cell.Instance) error {
	if inst == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil instance")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	pidx, ok := l.byName[parent]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no cell named %q in library %q", parent, l.Name)
	}
	child, err := l.nameOf(inst.Cell)
	if err != nil {
		return errors.Context(err, "instance %q", inst.Name)
	}

	// The edge goes in first so the cycle check and the insertion are one
	// step; it is rolled back if the parent cannot take the instance.
	err = l.graph.AddEdgeAcyclic(dag.Edge{From: parent, To: child, Meta: dag.Metadata{metaInstance: inst.Name}})
	switch {
	case stderrors.Is(err, dag.ErrGraphHasCycle):
		observability.Library().OnCycleRejected(parent, child)
		return errors.New(errors.ErrCodeCycle, "instance %q of %q inside %q would create a cycle", inst.Name, child, parent)
	case err != nil:
		return errors.Wrap(errors.ErrCodeInternal, err, "indexing instance %q", inst.Name)
	}

	err = l.cells[pidx].Write(func(c *cell.Cell) error {
		if c.Layout == nil {
			return errors.New(errors.ErrCodeValidation, "cell %q has no layout view to hold instance %q", parent, inst.Name)
		}
		c.Layout.AddInstance(inst)
		return nil
	})
	if err != nil {
		l.graph.RemoveEdge(parent, child)
		return errors.Context(err, "instantiating %q in %q", inst.Name, parent)
	}
	observability.Library().OnInstanceAdded(parent, inst.Name, child)
	return nil
}

// SetView adds or replaces a view on the named cell under exclusive access.
// Replacing the layout view re-derives the cell's hierarchy edges; if the
// new layout would create a cycle nothing is changed.
func (l *Library) SetView(name string, v cell.View) error {
	if isNilView(v) {
		return errors.New(errors.ErrCodeInvalidInput, "cannot set a nil view on %q", name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.byName[name]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no cell named %q in library %q", name, l.Name)
	}

	lay, isLayout := v.(*cell.Layout)
	if !isLayout {
		return l.cells[idx].Write(func(c *cell.Cell) error {
			c.AddView(v)
			return nil
		})
	}

	children, err := l.childNames(lay)
	if err != nil {
		return errors.Context(err, "layout for %q", name)
	}
	for _, child := range children {
		if child == name || l.reachesIgnoringOutgoing(child, name) {
			observability.Library().OnCycleRejected(name, child)
			return errors.New(errors.ErrCodeCycle, "layout for %q instantiates %q, which would create a cycle", name, child)
		}
	}

	if err := l.cells[idx].Write(func(c *cell.Cell) error {
		c.AddView(v)
		return nil
	}); err != nil {
		return errors.Context(err, "setting layout of %q", name)
	}

	for _, child := range slices.Clone(l.graph.Children(name)) {
		l.graph.RemoveEdge(name, child)
	}
	for i, child := range children {
		_ = l.graph.AddEdge(dag.Edge{From: name, To: child, Meta: dag.Metadata{metaInstance: lay.Instances[i].Name}})
	}
	return nil
}

// isNilView reports whether v is nil or a typed nil pointer view.
func isNilView(v cell.View) bool {
	switch v := v.(type) {
	case nil:
		return true
	case *cell.Layout:
		return v == nil
	case *cell.RawLayoutPtr:
		return v == nil
	}
	return false
}

// Parents returns the distinct cells whose layouts instantiate name, in
// first-instantiation order.
func (l *Library) Parents(name string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, p := range l.graph.Parents(name) {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// reachesIgnoringOutgoing reports whether from reaches to without using
// the current outgoing edges of to. Callers must hold l.mu.
func (l *Library) reachesIgnoringOutgoing(from, to string) bool {
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == to {
			return true
		}
		for _, child := range l.graph.Children(id) {
			if !seen[child] {
				seen[child] = true
				stack = append(stack, child)
			}
		}
	}
	return false
}

// Lookup returns the shared pointer of the named cell.
func (l *Library) Lookup(name string) (*ptr.Ptr[cell.Cell], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx, ok := l.byName[name]
	if !ok {
		return nil, false
	}
	return l.cells[idx], true
}

// Get returns the entry with the given ID.
func (l *Library) Get(id uuid.UUID) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx, ok := l.byID[id]
	if !ok {
		return Entry{}, false
	}
	return l.entry(idx), true
}

// Entries returns all cells in insertion order.
func (l *Library) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.cells))
	for i := range l.cells {
		out[i] = l.entry(i)
	}
	return out
}

func (l *Library) entry(idx int) Entry {
	return Entry{ID: l.ids[idx], Name: l.names[idx], Cell: l.cells[idx]}
}

// Len returns the number of cells.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cells)
}

// Graph returns a copy of the hierarchy graph. Edges run from parent to
// child and carry the instance name under the "instance" metadata key.
func (l *Library) Graph() *dag.DAG {
	l.mu.Lock()
	defer l.mu.Unlock()
	g := dag.New(dag.Metadata{"library": l.Name})
	for _, n := range l.graph.Nodes() {
		_ = g.AddNode(dag.Node{ID: n.ID})
	}
	for _, e := range l.graph.Edges() {
		_ = g.AddEdge(dag.Edge{From: e.From, To: e.To, Meta: dag.Metadata{metaInstance: e.Meta[metaInstance]}})
	}
	return g
}

// TopoOrder returns cell names with children before parents.
func (l *Library) TopoOrder() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, err := l.graph.TopoSort()
	if err != nil {
		// Unreachable: every insertion path keeps the graph acyclic.
		panic("library: hierarchy graph is cyclic")
	}
	return order
}

// InstanceBox is the placed extent of one instance, or the reason it could
// not be computed.
type InstanceBox struct {
	Instance string
	Cell     string
	Box      geom.BoundBox
	Err      error
}

// InstanceBoxes computes the bounding box of every instance in the named
// cell's layout, in layout order. Per-instance failures are reported in
// InstanceBox.Err; the returned error covers only the parent cell itself.
func (l *Library) InstanceBoxes(name string) ([]InstanceBox, error) {
	p, ok := l.Lookup(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no cell named %q in library %q", name, l.Name)
	}
	return ptr.Get(p, func(c *cell.Cell) ([]InstanceBox, error) {
		if c.Layout == nil {
			return nil, errors.New(errors.ErrCodeValidation, "cell %q has no layout view", name)
		}
		out := make([]InstanceBox, len(c.Layout.Instances))
		for i, inst := range c.Layout.Instances {
			out[i].Instance = inst.Name
			out[i].Cell, _ = inst.CellName()
			out[i].Box, out[i].Err = inst.BoundBox()
		}
		return out, nil
	})
}

// Extent returns the union of the bounding boxes of the named cell's
// instances.
func (l *Library) Extent(name string) (geom.BoundBox, error) {
	p, ok := l.Lookup(name)
	if !ok {
		return geom.BoundBox{}, errors.New(errors.ErrCodeNotFound, "no cell named %q in library %q", name, l.Name)
	}
	return ptr.Get(p, func(c *cell.Cell) (geom.BoundBox, error) {
		if c.Layout == nil {
			return geom.BoundBox{}, errors.New(errors.ErrCodeValidation, "cell %q has no layout view", name)
		}
		return c.Layout.InstanceExtent()
	})
}
