// Package pkg provides the core libraries for tetris, a physical-layout
// core for hierarchical IC cells.
//
// # Overview
//
// A cell bundles up to four alternative views of one circuit block. Cells
// compose through instances placed in a parent's layout, and the core
// resolves bounding boxes and track assignments across that hierarchy.
//
//	design.toml
//	     ↓
//	internal/config (decode and wire instances)
//	     ↓
//	[library] (shared cells, acyclic hierarchy)
//	     ↓
//	[cell] (outline, metals, instance boxes)
//	     ↓
//	CLI reports / [hierdot] diagrams
//
// # Quick Start
//
//	lib := library.New("demo")
//	_, inv, _ := lib.Add(cell.FromViews("inv",
//	    cell.AbstractView(abstract.New("inv", 2, outline.Rect(4, 6)))))
//	_, _, _ = lib.Add(cell.FromViews("top",
//	    cell.NewLayout("top", 4, outline.Rect(20, 10))))
//
//	_ = lib.Instantiate("top", &cell.Instance{
//	    Name: "i0", Cell: inv, Loc: place.AbsAt(geom.NewXy(10, 0)), ReflectHoriz: true,
//	})
//	box, _ := lib.Extent("top") // [(6, 0), (10, 6)]
//
// # Main Packages
//
// ## Cell Core
//
// [cell] - Cells, their views, layouts, instances and the fluent net
// assignment handle. Geometry comes from the highest-priority view present:
// abstract, then layout, then raw.
//
// [ptr] - Shared, RW-locked pointers. A panic during a write poisons the
// pointer; later access returns an error instead of panicking.
//
// [library] - Owns a set of cells, hands out their shared pointers and keeps
// the instance hierarchy acyclic.
//
// ## Primitives
//
// [geom], [place], [stack], [outline] - Coordinates, placements, track
// intersections and staircase outlines.
//
// [abstract], [iface], [raw] - View payloads.
//
// ## Supporting
//
// [dag] - Directed graph with reachability and topological order, backing
// the library hierarchy.
//
// [hierdot] - Graphviz export of the hierarchy.
//
// [cache] - On-disk cache for rendered diagrams.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hooks for cell and library events.
//
// [buildinfo] - Version information injected at build time.
//
// [cell]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/cell
// [ptr]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/ptr
// [library]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/library
// [geom]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/geom
// [place]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/place
// [stack]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/stack
// [outline]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/outline
// [abstract]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/abstract
// [iface]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/iface
// [raw]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/raw
// [dag]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/dag
// [hierdot]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/hierdot
// [cache]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/tetris/pkg/buildinfo
package pkg
