// Package hierdot exports cell hierarchies as Graphviz diagrams.
//
// [ToDOT] turns the hierarchy graph of a library (see library.Library.Graph)
// into DOT text with one box per cell and one edge per parent/child pair.
// [RenderSVG] lays the DOT out with the embedded Graphviz runtime from
// github.com/goccy/go-graphviz, so no external binary is needed.
//
// This is a view of which cells instantiate which. It does not draw any
// layout geometry.
package hierdot
