package config

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tetris/pkg/cell"
	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/geom"
	"github.com/matzehuels/tetris/pkg/library"
	"github.com/matzehuels/tetris/pkg/ptr"
	"github.com/matzehuels/tetris/pkg/raw"
	"github.com/matzehuels/tetris/pkg/stack"
)

const demo = `
library = "demo"

[[cells]]
name = "top"
  [cells.layout]
  metals = 4
  outline = { x = [20], y = [10] }
  [[cells.layout.instances]]
  name = "i0"
  cell = "inv"
  at = { x = 0, y = 0 }
  [[cells.layout.instances]]
  name = "i1"
  cell = "inv"
  at = { x = 10, y = 0 }
  reflect_horiz = true
  [[cells.layout.nets]]
  name = "VDD"
  at = [
    { layer = 1, track = 3, at = 0, relz = "before" },
    { layer = 1, track = 3, at = 5, relz = "after" },
  ]
  [[cells.layout.cuts]]
  layer = 2
  track = 1
  at = 4

[[cells]]
name = "inv"
  [cells.interface]
  signals = [{ name = "a" }, { name = "y" }]
  [cells.abstract]
  metals = 2
  outline = { x = [4], y = [6] }

[[cells]]
name = "pad"
  [cells.raw]
  library = "vendor"
  metals = 3
  outline = { x = [8], y = [8] }
`

func build(t *testing.T, src string) (*library.Library, error) {
	t.Helper()
	d, err := Decode(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	return d.Build()
}

func lookup(t *testing.T, lib *library.Library, name string) *ptr.Ptr[cell.Cell] {
	t.Helper()
	p, ok := lib.Lookup(name)
	if !ok {
		t.Fatalf("cell %q not loaded", name)
	}
	return p
}

func TestBuildDemo(t *testing.T) {
	lib, err := build(t, demo)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	ext, err := lib.Extent("top")
	if err != nil {
		t.Fatalf("Extent: %v", err)
	}
	want := geom.NewBoundBox(geom.NewXy(0, 0), geom.NewXy(10, 6))
	if ext != want {
		t.Errorf("Extent = %v, want %v", ext, want)
	}

	order := lib.TopoOrder()
	if len(order) != 3 || slices.Index(order, "inv") > slices.Index(order, "top") {
		t.Errorf("TopoOrder = %v, want inv before top", order)
	}

	err = lookup(t, lib, "top").Read(func(c *cell.Cell) error {
		wantAssign := []stack.Assign{
			{Net: "VDD", At: stack.TrackIntersection{Layer: 1, Track: 3, At: 0, RelZ: stack.Before}},
			{Net: "VDD", At: stack.TrackIntersection{Layer: 1, Track: 3, At: 5, RelZ: stack.After}},
		}
		if diff := cmp.Diff(wantAssign, c.Layout.Assignments); diff != "" {
			t.Errorf("Assignments mismatch (-want +got):\n%s", diff)
		}
		wantCuts := []stack.TrackIntersection{{Layer: 2, Track: 1, At: 4, RelZ: stack.Before}}
		if diff := cmp.Diff(wantCuts, c.Layout.Cuts); diff != "" {
			t.Errorf("Cuts mismatch (-want +got):\n%s", diff)
		}
		if n := len(c.Layout.Instances); n != 2 {
			t.Errorf("len(Instances) = %d, want 2", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	err = lookup(t, lib, "inv").Read(func(c *cell.Cell) error {
		if c.Interface == nil || len(c.Interface.Signals) != 2 {
			t.Errorf("interface view = %+v, want two signals", c.Interface)
		}
		src, err := c.GeometrySource()
		if err != nil || src != cell.KindAbstract {
			t.Errorf("GeometrySource = %v, %v; want abstract", src, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	err = lookup(t, lib, "pad").Read(func(c *cell.Cell) error {
		if c.Raw == nil {
			t.Fatal("raw view missing")
		}
		name, err := ptr.Get(c.Raw.Cell, func(rc *raw.Cell) (string, error) { return rc.Name, nil })
		if err != nil || name != "pad" {
			t.Errorf("raw cell name = %q, %v; want pad", name, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
}

func TestRelativePlacementStaysUnresolved(t *testing.T) {
	src := `
[[cells]]
name = "leaf"
  [cells.abstract]
  metals = 1
  outline = { x = [2], y = [2] }
[[cells]]
name = "top"
  [cells.layout]
  metals = 1
  outline = { x = [10], y = [10] }
  [[cells.layout.instances]]
  name = "a"
  cell = "leaf"
  [[cells.layout.instances]]
  name = "b"
  cell = "leaf"
  rel = { of = "a", side = "right", offset = { x = 1, y = 0 } }
`
	lib, err := build(t, src)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, err = lib.Extent("top")
	if !errors.Is(err, errors.ErrCodeUnresolvedPlace) {
		t.Errorf("Extent error = %v, want %s", err, errors.ErrCodeUnresolvedPlace)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{
			name: "unknown key",
			src:  "[[cells]]\nname = \"a\"\ncolour = \"red\"\n",
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "syntax",
			src:  "[[cells]\n",
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "unnamed cell",
			src:  "[[cells]]\n",
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "duplicate cell",
			src:  "[[cells]]\nname = \"a\"\n[[cells]]\nname = \"a\"\n",
			code: errors.ErrCodeDuplicate,
		},
		{
			name: "bad outline",
			src:  "[[cells]]\nname = \"a\"\n[cells.abstract]\nmetals = 1\noutline = { x = [1, 2], y = [1, 2] }\n",
			code: errors.ErrCodeInvalidOutline,
		},
		{
			name: "unknown child",
			src: `[[cells]]
name = "top"
[cells.layout]
outline = { x = [1], y = [1] }
[[cells.layout.instances]]
name = "i"
cell = "ghost"
`,
			code: errors.ErrCodeNotFound,
		},
		{
			name: "bad relz",
			src: `[[cells]]
name = "top"
[cells.layout]
outline = { x = [1], y = [1] }
[[cells.layout.nets]]
name = "n"
at = [{ layer = 1, track = 1, at = 1, relz = "sideways" }]
`,
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "at and rel",
			src: `[[cells]]
name = "leaf"
[cells.abstract]
outline = { x = [1], y = [1] }
[[cells]]
name = "top"
[cells.layout]
outline = { x = [1], y = [1] }
[[cells.layout.instances]]
name = "i"
cell = "leaf"
at = { x = 0, y = 0 }
rel = { of = "j", side = "top" }
`,
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "unknown side",
			src: `[[cells]]
name = "leaf"
[cells.abstract]
outline = { x = [1], y = [1] }
[[cells]]
name = "top"
[cells.layout]
outline = { x = [1], y = [1] }
[[cells.layout.instances]]
name = "i"
cell = "leaf"
rel = { of = "j", side = "north" }
`,
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "cycle",
			src: `[[cells]]
name = "a"
[cells.layout]
outline = { x = [1], y = [1] }
[[cells.layout.instances]]
name = "ib"
cell = "b"
[[cells]]
name = "b"
[cells.layout]
outline = { x = [1], y = [1] }
[[cells.layout.instances]]
name = "ia"
cell = "a"
`,
			code: errors.ErrCodeCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build(t, tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(t.TempDir() + "/missing.toml")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("LoadFile error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestLoadExampleDesign(t *testing.T) {
	lib, err := LoadFile("../../examples/designs/inverter.toml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	ext, err := lib.Extent("row")
	if err != nil {
		t.Fatalf("Extent: %v", err)
	}
	if want := geom.NewBoundBox(geom.NewXy(0, 0), geom.NewXy(28, 8)); ext != want {
		t.Errorf("Extent = %v, want %v", ext, want)
	}
	if n := lib.Graph().EdgeCount(); n != 3 {
		t.Errorf("EdgeCount = %d, want 3", n)
	}
}
