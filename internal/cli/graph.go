package cli

import (
	"github.com/spf13/cobra"

	"github.com/phallocators/allocviz/pkg/model"
	"github.com/phallocators/allocviz/pkg/pipeline"
)

// graphCommand creates the graph command for adjacency diagrams.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output  string
		formats string
		colored bool
		scale   float64
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "graph [snapshot.json]",
		Short: "Draw the prev/next links of a linked-list snapshot",
		Long: `Draw the prev/next links of a linked-list snapshot.

Every block becomes a record with prev, base, size, type and next cells, and
every link becomes an arrow from the port of its source block. The graph is
laid out left to right by Graphviz; dot output is the raw Graphviz source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphFormats := pipeline.ParseFormats(formats)
			for _, f := range graphFormats {
				if err := pipeline.ValidateGraphFormat(f); err != nil {
					return err
				}
			}

			layouts := c.cfg.Layouts
			res, err := c.execute(cmd.Context(), args[0], pipeline.Options{
				Kind:         model.KindLinkedList,
				Layouts:      &layouts,
				Scale:        scale,
				GraphOnly:    true,
				GraphFormats: graphFormats,
				GraphColored: colored,
				Refresh:      refresh,
				Logger:       c.Logger,
			}, noCache, "Laying out graph...")
			if err != nil {
				return err
			}

			paths, err := writeArtifacts(res.Artifacts, output, args[0])
			if err != nil {
				return err
			}
			if output == "-" {
				return nil
			}

			printSuccess("Drew %d blocks and %d links", res.Stats.GraphNodes, res.Stats.GraphEdges)
			for _, p := range paths {
				printFile(p)
			}
			printCacheStatus(res.CacheInfo.GraphHit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (single format), base path (multiple), or "-" for stdout`)
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&colored, "colored", false, "fill type cells with state colors")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "raster scale for png output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and render again")

	return cmd
}
