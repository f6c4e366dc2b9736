package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tetris/pkg/cell"
	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/library"
	"github.com/matzehuels/tetris/pkg/ptr"
)

type bboxOpts struct {
	cell string
}

func (c *CLI) bboxCommand() *cobra.Command {
	opts := bboxOpts{}

	cmd := &cobra.Command{
		Use:   "bbox <design.toml>",
		Short: "Show placed bounding boxes of layout instances",
		Long: `Show the bounding box of every instance in each layout, after
reflection about the instance origin, and the union extent of the layout.

Instances whose placement is still relative cannot be resolved and are
reported individually.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.load(args[0])
			if err != nil {
				return err
			}
			names, err := layoutCells(lib, opts.cell)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				if err := c.printBoxes(out, lib, name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.cell, "cell", "", "only report this cell")

	return cmd
}

// layoutCells returns the cells to report: only, if set, otherwise every
// cell carrying a layout view in library order.
func layoutCells(lib *library.Library, only string) ([]string, error) {
	if only != "" {
		if _, ok := lib.Lookup(only); !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "no cell named %q", only)
		}
		return []string{only}, nil
	}
	var names []string
	for _, e := range lib.Entries() {
		hasLayout, err := ptr.Get(e.Cell, func(c *cell.Cell) (bool, error) {
			return c.Layout != nil, nil
		})
		if err != nil {
			return nil, errors.Context(err, "cell %q", e.Name)
		}
		if hasLayout {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

func (c *CLI) printBoxes(w io.Writer, lib *library.Library, name string) error {
	boxes, err := lib.InstanceBoxes(name)
	if err != nil {
		return err
	}
	printTitle(w, "%s", name)
	t := &table{header: []string{"INSTANCE", "CELL", "BOX"}}
	for _, b := range boxes {
		if b.Err != nil {
			c.Logger.Debug("instance box unavailable", "layout", name, "instance", b.Instance, "err", b.Err)
			t.add(StyleValue.Render(b.Instance), StyleDim.Render(b.Cell), StyleWarning.Render(reason(b.Err)))
			continue
		}
		t.add(StyleValue.Render(b.Instance), StyleDim.Render(b.Cell), StyleNumber.Render(b.Box.String()))
	}
	t.render(w)

	ext, err := lib.Extent(name)
	switch {
	case err == nil:
		printSuccess(w, "extent %s", StyleNumber.Render(ext.String()))
	case errors.Is(err, errors.ErrCodeValidation), errors.Is(err, errors.ErrCodeUnresolvedPlace):
		printError(w, "extent unavailable: %s", reason(err))
	default:
		return err
	}
	return nil
}

// reason describes err by its code and the innermost structured message,
// which names the actual failure rather than the layers that relayed it.
func reason(err error) string {
	var inner *errors.Error
	for e := err; e != nil; {
		pe, ok := e.(*errors.Error)
		if !ok {
			break
		}
		inner = pe
		e = pe.Cause
	}
	if inner == nil {
		return err.Error()
	}
	return string(inner.Code) + ": " + inner.Message
}
