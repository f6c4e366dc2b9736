// Package raw holds references to externally authored layout content.
// Only the names are inspected by tetris; the geometry stays opaque.
package raw

// Library is a collection of raw cells, such as an imported GDS library.
type Library struct {
	Name  string
	Units string
}

// Cell is a single raw layout cell.
type Cell struct {
	Name string
}
