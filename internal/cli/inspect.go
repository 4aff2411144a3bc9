package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawgraph/pkg/editor"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// inspectCommand creates the inspect command for listing a document's shapes.
func (c *CLI) inspectCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [document.json]",
		Short: "List the shapes of a document",
		Long: `List the shapes of a document in z-order, bottom first.

The table format shows one row per top-level shape. The json format prints
the serialized shape records.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.openDocument(args[0], false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "table":
				return writeInspect(out, ed)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ed.Snapshot().Shapes)
			default:
				return errs.New(errs.ErrCodeInvalidInput, "unknown format %q (table, json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json")
	return cmd
}

func writeInspect(w io.Writer, ed *editor.Editor) error {
	shapes, nodes, edges := documentStats(ed)
	b := ed.Document().Bounds()

	for _, kv := range [][2]string{
		{"Shapes", strconv.Itoa(shapes)},
		{"Nodes", strconv.Itoa(nodes)},
		{"Edges", strconv.Itoa(edges)},
		{"Bounds", formatBounds(b.X, b.Y, b.Width, b.Height)},
	} {
		if _, err := fmt.Fprintln(w, keyValueLine(kv[0], kv[1])); err != nil {
			return err
		}
	}
	if shapes == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, shapeTable(shapeRows(ed.Document().Shapes()), -1).Render())
	return err
}

// =============================================================================
// Shape Table
// =============================================================================

// shapeRow is the display form of one top-level shape.
type shapeRow struct {
	ID       string
	Type     shape.Type
	Bounds   string
	Rotation string
	Detail   string
}

func shapeRows(shapes []shape.Shape) []shapeRow {
	rows := make([]shapeRow, len(shapes))
	for i, s := range shapes {
		b := s.Bounds()
		rows[i] = shapeRow{
			ID:       shortID(s.ID()),
			Type:     s.Type(),
			Bounds:   formatBounds(b.X, b.Y, b.Width, b.Height),
			Rotation: strconv.FormatFloat(s.Rotation(), 'f', -1, 64),
			Detail:   shapeDetail(s),
		}
	}
	return rows
}

func shapeDetail(s shape.Shape) string {
	switch v := s.(type) {
	case *shape.Edge:
		arrow := "→"
		switch v.Direction() {
		case shape.DirectionBackward:
			arrow = "←"
		case shape.DirectionNone:
			arrow = "—"
		}
		return shortID(v.Source()) + " " + arrow + " " + shortID(v.Target())
	case *shape.Group:
		return fmt.Sprintf("%d children", len(v.Children()))
	case interface{ Label() string }:
		return strconv.Quote(v.Label())
	}
	return ""
}

// shapeTable renders rows with the cursor row highlighted. A negative cursor
// highlights nothing.
func shapeTable(rows []shapeRow, cursor int) *table.Table {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.ID, string(r.Type), r.Bounds, r.Rotation, r.Detail}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Type", "Bounds", "Rot", "Detail").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case col == 1 && (rows[row].Type == shape.TypeNode || rows[row].Type == shape.TypeEdge):
				return StyleHighlight
			case col == 2 || col == 3:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatBounds(x, y, w, h float64) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return f(x) + "," + f(y) + " " + f(w) + "×" + f(h)
}
