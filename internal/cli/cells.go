package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tetris/pkg/cell"
	"github.com/matzehuels/tetris/pkg/errors"
	"github.com/matzehuels/tetris/pkg/library"
	"github.com/matzehuels/tetris/pkg/ptr"
)

func (c *CLI) cellsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cells <design.toml>",
		Short: "List cells with their views and resolved geometry",
		Long: `List every cell of a design.

Geometry is taken from the highest-priority view present: abstract, then
layout, then raw. Interface-only cells have no geometry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.load(args[0])
			if err != nil {
				return err
			}
			t, err := cellTable(lib)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printTitle(out, "Library %s", lib.Name)
			t.render(out)
			printKeyValue(out, "cells", strconv.Itoa(lib.Len()))
			printKeyValue(out, "instances", strconv.Itoa(lib.Graph().EdgeCount()))
			return nil
		},
	}
}

// cellRow summarizes one cell. Missing geometry is reported in the row,
// lock failures abort.
type cellRow struct {
	Name   string
	Views  []string
	Source string
	Size   string
	Metals string
	Top    string
}

func describeCell(p *ptr.Ptr[cell.Cell]) (cellRow, error) {
	return ptr.Get(p, func(c *cell.Cell) (cellRow, error) {
		row := cellRow{Name: c.Name, Source: "-", Size: "-", Metals: "-", Top: "-"}
		for _, k := range c.Views() {
			row.Views = append(row.Views, k.String())
		}
		src, err := c.GeometrySource()
		if err != nil {
			if errors.Is(err, errors.ErrCodeValidation) {
				return row, nil
			}
			return row, err
		}
		row.Source = src.String()

		size, err := c.BoundBoxSize()
		if err != nil {
			return row, err
		}
		row.Size = fmt.Sprintf("%dx%d", size.X, size.Y)

		metals, err := c.Metals()
		if err != nil {
			return row, err
		}
		row.Metals = strconv.Itoa(metals)

		top, ok, err := c.TopMetal()
		if err != nil {
			return row, err
		}
		if ok {
			row.Top = "m" + strconv.Itoa(top)
		}
		return row, nil
	})
}

func cellTable(lib *library.Library) (*table, error) {
	t := &table{header: []string{"CELL", "VIEWS", "SOURCE", "SIZE", "METALS", "TOP", "USED BY"}}
	for _, e := range lib.Entries() {
		row, err := describeCell(e.Cell)
		if err != nil {
			return nil, errors.Context(err, "cell %q", e.Name)
		}
		source := StyleValue.Render(row.Source)
		if row.Source == "-" {
			source = StyleWarning.Render("no geometry")
		}
		t.add(
			StyleValue.Render(row.Name),
			StyleDim.Render(strings.Join(row.Views, ",")),
			source,
			StyleNumber.Render(row.Size),
			StyleNumber.Render(row.Metals),
			StyleNumber.Render(row.Top),
			StyleDim.Render(usedBy(lib.Parents(e.Name))),
		)
	}
	return t, nil
}

func usedBy(parents []string) string {
	if len(parents) == 0 {
		return "-"
	}
	return strings.Join(parents, ",")
}
