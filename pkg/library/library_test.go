package library

import (
	"slices"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/tetris/pkg/abstract"
	"github.com/matzehuels/tetris/pkg/cell"
	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/geom"
	"github.com/matzehuels/tetris/pkg/observability"
	"github.com/matzehuels/tetris/pkg/outline"
	"github.com/matzehuels/tetris/pkg/place"
	"github.com/matzehuels/tetris/pkg/ptr"
)

type recordingHooks struct {
	observability.NoopLibraryHooks
	cycles [][2]string
}

func (h *recordingHooks) OnCycleRejected(parent, child string) {
	h.cycles = append(h.cycles, [2]string{parent, child})
}

func leafCell(name string, w, h geom.PrimPitches) *cell.Cell {
	return cell.FromViews(name, cell.AbstractView(abstract.New(name, 2, outline.Rect(w, h))))
}

func layoutCell(name string) *cell.Cell {
	return cell.FromViews(name, cell.NewLayout(name, 4, outline.Rect(100, 100)))
}

func mustAdd(t *testing.T, l *Library, c *cell.Cell) *ptr.Ptr[cell.Cell] {
	t.Helper()
	_, p, err := l.Add(c)
	if err != nil {
		t.Fatalf("Add(%s): %v", c.Name, err)
	}
	return p
}

func TestAddAndLookup(t *testing.T) {
	l := New("demo")
	id, p, err := l.Add(leafCell("inv", 4, 6))
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if id == uuid.Nil {
		t.Error("Add should assign a non-nil ID")
	}

	got, ok := l.Lookup("inv")
	if !ok || !got.Same(p) {
		t.Error("Lookup should return the pointer from Add")
	}
	entry, ok := l.Get(id)
	if !ok || entry.Name != "inv" || !entry.Cell.Same(p) {
		t.Errorf("Get(%s) = %+v, %v", id, entry, ok)
	}
	if _, ok := l.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}

func TestAddErrors(t *testing.T) {
	l := New("demo")
	mustAdd(t, l, leafCell("inv", 4, 6))

	foreign := ptr.New(*leafCell("foreign", 1, 1))
	withForeign := layoutCell("top")
	withForeign.Layout.AddInstance(&cell.Instance{Name: "f0", Cell: foreign})

	tests := []struct {
		name string
		cell *cell.Cell
		code errors.Code
	}{
		{"duplicate", leafCell("inv", 1, 1), errors.ErrCodeDuplicate},
		{"unnamed", cell.New(""), errors.ErrCodeInvalidInput},
		{"foreign instance", withForeign, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := l.Add(tt.cell); !errors.Is(err, tt.code) {
				t.Errorf("Add() error = %v, want %s", err, tt.code)
			}
		})
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestAddWithExistingInstances(t *testing.T) {
	l := New("demo")
	inv := mustAdd(t, l, leafCell("inv", 4, 6))

	top := layoutCell("top")
	top.Layout.AddInstance(&cell.Instance{Name: "i0", Cell: inv})
	top.Layout.AddInstance(&cell.Instance{Name: "i1", Cell: inv})
	mustAdd(t, l, top)

	g := l.Graph()
	if !slices.Equal(g.Children("top"), []string{"inv", "inv"}) {
		t.Errorf("Children(top) = %v", g.Children("top"))
	}
	if g.Edges()[1].Meta["instance"] != "i1" {
		t.Errorf("edge metadata = %v", g.Edges()[1].Meta)
	}
}

func TestInstantiateRejectsCycles(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetLibraryHooks(hooks)
	t.Cleanup(observability.Reset)

	l := New("demo")
	top := mustAdd(t, l, layoutCell("top"))
	mid := mustAdd(t, l, layoutCell("mid"))
	leaf := mustAdd(t, l, leafCell("leaf", 2, 2))
	other := mustAdd(t, l, leafCell("other", 1, 1))

	if err := l.Instantiate("top", &cell.Instance{Name: "m0", Cell: mid}); err != nil {
		t.Fatalf("top<-mid: %v", err)
	}
	if err := l.Instantiate("mid", &cell.Instance{Name: "l0", Cell: leaf}); err != nil {
		t.Fatalf("mid<-leaf: %v", err)
	}

	tests := []struct {
		name   string
		parent string
		inst   *cell.Instance
		code   errors.Code
	}{
		{"back edge", "mid", &cell.Instance{Name: "t0", Cell: top}, errors.ErrCodeCycle},
		{"self", "top", &cell.Instance{Name: "t1", Cell: top}, errors.ErrCodeCycle},
		{"no layout view", "leaf", &cell.Instance{Name: "x", Cell: other}, errors.ErrCodeValidation},
		{"unknown parent", "nope", &cell.Instance{Name: "x", Cell: leaf}, errors.ErrCodeNotFound},
		{"foreign child", "top", &cell.Instance{Name: "x", Cell: ptr.New(*cell.New("f"))}, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := l.Instantiate(tt.parent, tt.inst); !errors.Is(err, tt.code) {
				t.Errorf("Instantiate() error = %v, want %s", err, tt.code)
			}
		})
	}

	if len(hooks.cycles) != 2 {
		t.Errorf("cycle hook calls = %v, want 2", hooks.cycles)
	}
	if n, _ := ptr.Get(mid, func(c *cell.Cell) (int, error) { return len(c.Layout.Instances), nil }); n != 1 {
		t.Errorf("mid has %d instances, want 1", n)
	}
	if _, err := l.Graph().TopoSort(); err != nil {
		t.Errorf("graph should stay acyclic: %v", err)
	}
	if n := l.Graph().EdgeCount(); n != 2 {
		t.Errorf("EdgeCount = %d, want 2: refused instances must leave no edge", n)
	}
}

func TestSetViewRejectsNilViews(t *testing.T) {
	l := New("demo")
	mustAdd(t, l, layoutCell("top"))
	mid := mustAdd(t, l, layoutCell("mid"))
	top, _ := l.Lookup("top")
	if err := l.Instantiate("top", &cell.Instance{Name: "m0", Cell: mid}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		view cell.View
	}{
		{"untyped nil", nil},
		{"nil layout", (*cell.Layout)(nil)},
		{"nil raw", (*cell.RawLayoutPtr)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := l.SetView("top", tt.view); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("SetView() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}

	if got := l.Graph().Children("top"); !slices.Equal(got, []string{"mid"}) {
		t.Errorf("Children(top) = %v, want [mid]", got)
	}
	if n, _ := ptr.Get(top, func(c *cell.Cell) (int, error) { return len(c.Layout.Instances), nil }); n != 1 {
		t.Errorf("top has %d instances, want 1", n)
	}
	// The hierarchy still knows top -> mid, so the reverse edge is refused.
	if err := l.Instantiate("mid", &cell.Instance{Name: "t0", Cell: top}); !errors.Is(err, errors.ErrCodeCycle) {
		t.Errorf("Instantiate(mid <- top) error = %v, want %s", err, errors.ErrCodeCycle)
	}
}

func TestParents(t *testing.T) {
	l := New("demo")
	mustAdd(t, l, layoutCell("a"))
	mustAdd(t, l, layoutCell("b"))
	leaf := mustAdd(t, l, leafCell("leaf", 1, 1))
	for _, step := range []struct{ parent, inst string }{{"b", "i0"}, {"a", "i1"}, {"b", "i2"}} {
		if err := l.Instantiate(step.parent, &cell.Instance{Name: step.inst, Cell: leaf}); err != nil {
			t.Fatal(err)
		}
	}
	if got := l.Parents("leaf"); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Parents(leaf) = %v, want [b a]", got)
	}
	if got := l.Parents("a"); len(got) != 0 {
		t.Errorf("Parents(a) = %v, want none", got)
	}
}

func TestSetView(t *testing.T) {
	l := New("demo")
	top := mustAdd(t, l, layoutCell("top"))
	leaf := mustAdd(t, l, leafCell("leaf", 2, 2))
	if err := l.Instantiate("top", &cell.Instance{Name: "l0", Cell: leaf}); err != nil {
		t.Fatal(err)
	}

	// Giving leaf a layout that instantiates top must be refused.
	bad := cell.NewLayout("leaf", 2, outline.Rect(2, 2))
	bad.AddInstance(&cell.Instance{Name: "t0", Cell: top})
	if err := l.SetView("leaf", bad); !errors.Is(err, errors.ErrCodeCycle) {
		t.Fatalf("SetView(cyclic layout) error = %v, want %s", err, errors.ErrCodeCycle)
	}
	if has, _ := ptr.Get(leaf, func(c *cell.Cell) (bool, error) { return c.Layout != nil, nil }); has {
		t.Error("rejected layout must not be stored")
	}

	// Replacing top's layout drops its old hierarchy edges.
	if err := l.SetView("top", cell.NewLayout("top", 4, outline.Rect(50, 50))); err != nil {
		t.Fatalf("SetView(top) error: %v", err)
	}
	if l.Graph().OutDegree("top") != 0 {
		t.Error("old edges of top should be removed")
	}

	// Now leaf may instantiate top.
	if err := l.SetView("leaf", bad); err != nil {
		t.Fatalf("SetView(leaf) error: %v", err)
	}
	if !slices.Equal(l.TopoOrder(), []string{"top", "leaf"}) {
		t.Errorf("TopoOrder() = %v", l.TopoOrder())
	}

	// Non-layout views are simply replaced.
	if err := l.SetView("leaf", cell.AbstractView(abstract.New("leaf", 7, outline.Rect(9, 9)))); err != nil {
		t.Fatalf("SetView(abstract) error: %v", err)
	}
	if m, _ := ptr.Get(leaf, (*cell.Cell).Metals); m != 7 {
		t.Errorf("Metals() = %d, want 7", m)
	}
}

func TestInstanceBoxesAndExtent(t *testing.T) {
	l := New("demo")
	mustAdd(t, l, layoutCell("top"))
	inv := mustAdd(t, l, leafCell("inv", 4, 6))
	empty := mustAdd(t, l, cell.New("empty"))

	insts := []*cell.Instance{
		{Name: "i0", Cell: inv, Loc: place.AbsAt(geom.NewXy(0, 0))},
		{Name: "i1", Cell: inv, Loc: place.AbsAt(geom.NewXy(12, 0)), ReflectHoriz: true},
		{Name: "e0", Cell: empty, Loc: place.AbsAt(geom.NewXy(20, 20))},
	}
	for _, inst := range insts {
		if err := l.Instantiate("top", inst); err != nil {
			t.Fatalf("Instantiate(%s): %v", inst.Name, err)
		}
	}

	boxes, err := l.InstanceBoxes("top")
	if err != nil {
		t.Fatalf("InstanceBoxes() error: %v", err)
	}
	if len(boxes) != 3 {
		t.Fatalf("len(boxes) = %d, want 3", len(boxes))
	}
	if boxes[1].Box != geom.NewBoundBox(geom.NewXy(8, 0), geom.NewXy(12, 6)) || boxes[1].Cell != "inv" {
		t.Errorf("boxes[1] = %+v", boxes[1])
	}
	if !errors.Is(boxes[2].Err, errors.ErrCodeValidation) {
		t.Errorf("boxes[2].Err = %v, want %s", boxes[2].Err, errors.ErrCodeValidation)
	}

	if _, err := l.Extent("top"); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("Extent() with an empty child error = %v", err)
	}
	if _, err := l.Extent("inv"); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("Extent(inv) error = %v, want %s", err, errors.ErrCodeValidation)
	}
	if _, err := l.InstanceBoxes("nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("InstanceBoxes(nope) error = %v", err)
	}
}

func TestEntriesOrder(t *testing.T) {
	l := New("demo")
	for _, name := range []string{"c", "a", "b"} {
		mustAdd(t, l, leafCell(name, 1, 1))
	}
	var names []string
	for _, e := range l.Entries() {
		names = append(names, e.Name)
	}
	if !slices.Equal(names, []string{"c", "a", "b"}) {
		t.Errorf("Entries() order = %v", names)
	}
}
