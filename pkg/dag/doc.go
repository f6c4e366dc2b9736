// Package dag provides the directed acyclic graph behind cell hierarchies.
//
// # Overview
//
// Cells are reused by instancing: a parent layout places instances of child
// cells, and the same child may appear under many parents. This package
// records that "instantiates" relation so it can be checked and walked
// without taking any of the cells' locks.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "top"})
//	g.AddNode(dag.Node{ID: "inv"})
//	g.AddEdgeAcyclic(dag.Edge{From: "top", To: "inv"})
//
// [DAG.AddEdgeAcyclic] refuses edges that would close a cycle, which is how
// the library package keeps hierarchies walkable. [DAG.TopoSort] lists cells
// leaf-first and fails on a graph that was built cyclic with plain
// [DAG.AddEdge].
//
// # Metadata
//
// Nodes, edges and the graph carry [Metadata] maps. The library stores the
// instance name on each edge.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
package dag
