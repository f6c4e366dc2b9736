package hierdot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tetris/pkg/dag"
)

// Options configures hierarchy diagrams.
type Options struct {
	// Detailed labels each edge with the names of the instances it stands
	// for. When false, repeated instances are shown as a count.
	Detailed bool
}

// ToDOT converts a hierarchy graph to Graphviz DOT format.
// Parallel edges between the same pair of cells are merged into one.
// Leaf cells are drawn with a dashed outline, top-level cells with a
// heavy one.
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", n.ID)}
		switch {
		case g.OutDegree(n.ID) == 0:
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		case g.InDegree(n.ID) == 0:
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range mergeEdges(g.Edges()) {
		fmt.Fprintf(&buf, "  %q -> %q", e.from, e.to)
		if label := e.label(opts.Detailed); label != "" {
			fmt.Fprintf(&buf, " [label=%q]", label)
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

type mergedEdge struct {
	from, to  string
	instances []string
}

func (e mergedEdge) label(detailed bool) string {
	if detailed {
		return strings.Join(e.instances, "\n")
	}
	if len(e.instances) > 1 {
		return fmt.Sprintf("×%d", len(e.instances))
	}
	return ""
}

// mergeEdges groups edges by endpoint pair, keeping first-seen order.
func mergeEdges(edges []dag.Edge) []mergedEdge {
	var out []mergedEdge
	index := make(map[[2]string]int)
	for _, e := range edges {
		key := [2]string{e.From, e.To}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, mergedEdge{from: e.From, to: e.To})
		}
		if name, ok := e.Meta["instance"].(string); ok && name != "" {
			out[i].instances = append(out[i].instances, name)
		} else {
			out[i].instances = append(out[i].instances, "")
		}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
