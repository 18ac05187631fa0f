package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/model"
	"github.com/phallocators/allocviz/pkg/pipeline"
)

// maxBlockRows caps the block table of inspect.
const maxBlockRows = 50

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		kindStr string
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [snapshot.json]",
		Short: "Summarize an allocator snapshot",
		Long: `Summarize an allocator snapshot without rendering it.

Validates the snapshot, computes its layout, and prints the grid geometry
and how many units each state occupies. Linked-list snapshots also list their
blocks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(kindStr)
			if err != nil {
				return err
			}
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			snap, err := model.DecodeAs(data, kind)
			if err != nil {
				return err
			}

			layouts := c.cfg.Layouts
			lf.apply(cmd, &layouts)
			d, err := pipeline.Layout(snap, layouts)
			if err != nil {
				return err
			}
			printInspect(summarize(snap, d, layouts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindStr, "kind", "k", "auto", "snapshot kind: auto, bitmap, buddy, linkedlist")
	lf.register(cmd)
	return cmd
}

// summary is what inspect reports about a snapshot.
type summary struct {
	Kind       model.Kind
	Header     model.Header
	Geometry   layout.Geometry
	Primitives int

	// Units counts memory units per state. For linked lists, units outside
	// every block are counted under StateEmpty.
	Units map[model.State]int

	// Layers holds per-layer state counts of buddy snapshots.
	Layers []map[model.State]int

	// Painted is the number of units covered by region spans.
	Painted int
	Blocks  []model.Block
}

func summarize(s *model.Snapshot, d layout.Diagram, set layout.Set) summary {
	sum := summary{
		Kind:       s.Kind,
		Header:     s.Header,
		Geometry:   d.Geometry,
		Primitives: len(d.Primitives),
		Units:      make(map[model.State]int),
	}

	switch s.Kind {
	case model.KindBitmap:
		for _, st := range s.Bitmap.States {
			sum.Units[st]++
		}
	case model.KindBuddy:
		for _, layer := range s.Buddy.Layers {
			counts := make(map[model.State]int)
			for _, st := range layer {
				counts[st]++
			}
			sum.Layers = append(sum.Layers, counts)
		}
		// The finest layer has one entry per unit.
		if n := len(sum.Layers); n > 0 {
			finest := n - 1
			if !set.Buddy.LayerZeroIsCoarsest {
				finest = 0
			}
			sum.Units = sum.Layers[finest]
		}
	case model.KindLinkedList:
		allocated := 0
		for _, b := range s.LinkedList.Blocks {
			sum.Units[b.Type] += b.Size
			allocated += b.Size
		}
		if free := d.Geometry.MemSize - allocated; free > 0 {
			sum.Units[model.StateEmpty] = free
		}
		for _, n := range layout.Coverage(d, set.LinkedList) {
			if n > 0 {
				sum.Painted++
			}
		}
		sum.Blocks = s.LinkedList.Blocks
	}
	return sum
}

func printInspect(sum summary) {
	geo := sum.Geometry
	fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf("%s snapshot", sum.Kind)))
	printKeyValue("Memory", fmt.Sprintf("%d units", geo.MemSize))
	printKeyValue("Grid", fmt.Sprintf("%d × %d", geo.GridWidth, geo.GridHeight))
	printKeyValue("Canvas", fmt.Sprintf("%d × %d px", geo.CanvasWidth, geo.CanvasHeight))
	printKeyValue("Primitives", strconv.Itoa(sum.Primitives))
	if sum.Kind == model.KindLinkedList {
		printKeyValue("Painted", fmt.Sprintf("%d units", sum.Painted))
	}
	if h := sum.Header; h != (model.Header{}) {
		printKeyValue("Base", fmt.Sprintf("%#x", h.MemBase))
		printKeyValue("Block size", fmt.Sprintf("%d bytes", h.BlockSize))
		printKeyValue("Capacity", strconv.FormatUint(h.TotalCapacity, 10))
		printKeyValue("Used", strconv.FormatUint(h.UsedBlocks, 10))
	}
	printNewline()

	fmt.Fprintln(stdout, stateTable(sum).Render())
	if len(sum.Layers) > 0 {
		printNewline()
		fmt.Fprintln(stdout, layerTable(sum.Layers).Render())
	}
	if len(sum.Blocks) > 0 {
		printNewline()
		fmt.Fprintln(stdout, blockTable(sum.Blocks).Render())
		if extra := len(sum.Blocks) - maxBlockRows; extra > 0 {
			printDetail("… %d more blocks", extra)
		}
	}
}

var inspectStates = []model.State{model.StateFree, model.StateUsed, model.StateMarked, model.StateEmpty}

func stateTable(sum summary) *table.Table {
	var rows [][]string
	for _, st := range inspectStates {
		n, ok := sum.Units[st]
		if !ok {
			continue
		}
		name := st.String()
		if st == model.StateEmpty {
			name = "Unallocated"
		}
		rows = append(rows, []string{name, strconv.Itoa(n), share(n, sum.Geometry.MemSize)})
	}
	return newTable("State", "Units", "Share").Rows(rows...)
}

func layerTable(layers []map[model.State]int) *table.Table {
	rows := make([][]string, len(layers))
	for i, counts := range layers {
		total := 0
		for _, n := range counts {
			total += n
		}
		rows[i] = []string{
			strconv.Itoa(i),
			strconv.Itoa(total),
			strconv.Itoa(counts[model.StateFree]),
			strconv.Itoa(counts[model.StateUsed]),
			strconv.Itoa(counts[model.StateMarked]),
		}
	}
	return newTable("Layer", "Blocks", "Free", "Used", "Marked").Rows(rows...)
}

func blockTable(blocks []model.Block) *table.Table {
	n := min(len(blocks), maxBlockRows)
	rows := make([][]string, n)
	for i, b := range blocks[:n] {
		rows[i] = []string{
			strconv.FormatUint(b.ID, 10),
			strconv.Itoa(b.Base),
			strconv.Itoa(b.Size),
			b.Type.String(),
			link(b.Prev),
			link(b.Next),
		}
	}
	return newTable("ID", "Base", "Size", "Type", "Prev", "Next").Rows(rows...)
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func share(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}

func link(id *uint64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatUint(*id, 10)
}
