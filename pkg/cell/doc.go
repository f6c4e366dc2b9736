// Package cell defines multi-view hardware cells and their hierarchical
// composition.
//
// # Overview
//
// A [Cell] is a named, reusable design unit carrying up to four alternative
// views: an interface bundle, an abstract, a concrete [Layout] and a pointer
// to externally authored raw layout ([RawLayoutPtr]). At most one view of
// each kind is held; adding another of the same kind replaces it.
//
// Geometric attributes are answered by whichever view is most abstract:
//
//	abstract > layout > raw
//
// An abstract placeholder is therefore enough to place a cell before its
// layout exists. Views are not checked against one another; if an abstract
// and a layout disagree on the outline, the abstract wins silently.
//
// # Hierarchy
//
// A [Layout] lists [Instance] values, each a placed and optionally reflected
// reference to another cell held through a shared [ptr.Ptr]. Many instances
// may share a cell definition, so the hierarchy is a DAG. [Instance.BoundBox]
// resolves the instance's placement and reads the referenced cell's outline
// under shared access.
//
// Reflection pivots on the instance origin rather than the shape's centre:
// a horizontally reflected instance occupies [x-w, x] instead of [x, x+w].
//
// # Net Assignment
//
// Track assignments are appended directly with [Layout.Assign] and
// [Layout.Cut], or chained for one net through a handle:
//
//	lay.Net("VDD").At(1, 3, 0, stack.Before).At(1, 4, 0, stack.After)
//
// # Errors
//
// Queries on a cell with no geometric view fail with
// [errors.ErrCodeValidation]. Placement and shared-access failures are
// propagated with the instance or cell name attached. Nothing here panics on
// a poisoned or contended cell.
package cell
