package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tetris/pkg/cache"
	"github.com/matzehuels/tetris/pkg/dag"
	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/hierdot"
)

type graphOpts struct {
	svg      bool
	detailed bool
	output   string
	noCache  bool
}

func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{}

	cmd := &cobra.Command{
		Use:   "graph <design.toml>",
		Short: "Export the cell hierarchy as DOT or SVG",
		Long: `Export the cell hierarchy as a Graphviz graph.

Nodes are cells, edges run from a layout to the cells it instantiates.
Repeated instances of the same child are merged into one edge.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.load(args[0])
			if err != nil {
				return err
			}
			g := lib.Graph()
			c.Logger.Debug("hierarchy",
				"cells", g.NodeCount(),
				"instances", g.EdgeCount(),
				"top", nodeIDs(g.Sources()),
				"leaves", nodeIDs(g.Sinks()),
				"order", lib.TopoOrder())

			data := []byte(hierdot.ToDOT(g, hierdot.Options{Detailed: opts.detailed}))
			if opts.svg {
				data, err = c.renderSVG(cmd.Context(), data, opts.noCache)
				if err != nil {
					return err
				}
			}

			if opts.output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", opts.output)
			}
			printFile(cmd.OutOrStdout(), opts.output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.svg, "svg", false, "render to SVG through graphviz")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label edges with instance names")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always re-render SVG")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

// renderSVG renders dot through graphviz, reusing a cached rendering of the
// same source when one exists. Cache failures only cost a re-render.
func (c *CLI) renderSVG(ctx context.Context, dot []byte, noCache bool) ([]byte, error) {
	store, err := newCache(noCache)
	if err != nil {
		c.Logger.Warn("render cache disabled", "err", err)
		store = cache.NewNullCache()
	}
	defer store.Close()

	key := cache.Key(cache.KindSVG, dot)
	if svg, ok, err := store.Get(ctx, key); err == nil && ok {
		c.Logger.Debug("svg served from cache", "key", key)
		return svg, nil
	}

	prog := newProgress(c.Logger)
	svg, err := hierdot.RenderSVG(ctx, string(dot))
	if err != nil {
		return nil, err
	}
	prog.done("Rendered SVG")

	if err := store.Set(ctx, key, svg, renderTTL); err != nil {
		c.Logger.Warn("could not cache svg", "err", err)
	}
	return svg, nil
}

func nodeIDs(nodes []*dag.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
