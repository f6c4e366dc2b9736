// Package iface defines the interface view of a cell: its signal bundle.
package iface

// Bundle is a named collection of signals.
type Bundle struct {
	Name    string
	Signals []Signal
}

// Signal is one named port of a bundle.
type Signal struct {
	Name  string
	Width int
}
