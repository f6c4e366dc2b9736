// Package abstract defines the placeholder view of a cell: an outline and a
// metal count, plus the names of its ports.
package abstract

import "github.com/matzehuels/tetris/pkg/outline"

// Abstract is a cell view with geometry summary only.
type Abstract struct {
	Name    string
	Metals  int
	Outline outline.Outline
	Ports   []Port
}

// Port is a named connection point on an abstract.
type Port struct {
	Name  string
	Layer int
}

// New creates an Abstract without ports.
func New(name string, metals int, o outline.Outline) Abstract {
	return Abstract{Name: name, Metals: metals, Outline: o}
}
