package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/model"
	"github.com/phallocators/allocviz/pkg/pipeline"
)

// layoutFlags are the layout overrides shared by render and inspect.
// They only replace config file values when given on the command line.
type layoutFlags struct {
	coarsest   bool
	multiplier int
	memSize    int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.coarsest, "layer-zero-coarsest", true, "buddy layer 0 holds the largest blocks")
	cmd.Flags().IntVar(&f.multiplier, "multiplier", 0, "grid sizing multiplier (overrides every kind)")
	cmd.Flags().IntVar(&f.memSize, "mem-size", 0, "linked-list memory size in units (default: end of the last block)")
}

func (f *layoutFlags) apply(cmd *cobra.Command, set *layout.Set) {
	flags := cmd.Flags()
	if flags.Changed("layer-zero-coarsest") {
		set.Buddy.LayerZeroIsCoarsest = f.coarsest
	}
	if flags.Changed("multiplier") {
		set.Bitmap.SizingMultiplier = f.multiplier
		set.Buddy.SizingMultiplier = f.multiplier
		set.LinkedList.SizingMultiplier = f.multiplier
	}
	if flags.Changed("mem-size") {
		set.LinkedList.MemSize = f.memSize
	}
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output       string
	kind         string
	formats      string
	title        string
	scale        float64
	transparent  bool
	graph        bool
	graphFormats string
	colored      bool
	noCache      bool
	refresh      bool
	layout       layoutFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [snapshot.json]",
		Short: "Render an allocator snapshot as a diagram",
		Long: `Render an allocator snapshot as a diagram.

The snapshot kind is detected from its keys: blockList is a linked list,
blocksLayer0 a buddy allocator, and memSize with bitmap a flat bitmap.
Use --kind to force one. Pass "-" to read the snapshot from stdin.

Output files are named after the input (or --output) with one extension per
format. Linked-list snapshots can also produce an adjacency diagram with
--graph, written as <base>.graph.<format>.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (single format), base path (multiple), or "-" for stdout`)
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "auto", "snapshot kind: auto, bitmap, buddy, linkedlist")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title embedded in SVG output")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "raster scale for png output")
	cmd.Flags().BoolVar(&opts.transparent, "transparent", false, "leave the canvas background unpainted")
	cmd.Flags().BoolVar(&opts.graph, "graph", false, "also render the adjacency diagram (linked lists)")
	cmd.Flags().StringVar(&opts.graphFormats, "graph-format", "", "adjacency diagram format(s): svg (default), dot, png, pdf")
	cmd.Flags().BoolVar(&opts.colored, "colored", false, "fill adjacency diagram type cells with state colors")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and render again")
	opts.layout.register(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	kind, err := model.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	formats := pipeline.ParseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	layouts := c.cfg.Layouts
	opts.layout.apply(cmd, &layouts)

	popts := pipeline.Options{
		Kind:         kind,
		Layouts:      &layouts,
		Formats:      formats,
		Scale:        opts.scale,
		Title:        opts.title,
		Transparent:  opts.transparent,
		Graph:        opts.graph,
		GraphFormats: pipeline.ParseFormats(opts.graphFormats),
		GraphColored: opts.colored,
		Refresh:      opts.refresh,
		Logger:       c.Logger,
	}
	res, err := c.execute(ctx, input, popts, opts.noCache, "Rendering diagram...")
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(res.Artifacts, opts.output, input)
	if err != nil {
		return err
	}
	if opts.output == "-" {
		return nil
	}

	printSuccess("Rendered %s snapshot", res.Snapshot.Kind)
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats, res.CacheInfo.RenderHit)
	return nil
}

// execute reads input and runs the pipeline behind a spinner.
func (c *CLI) execute(ctx context.Context, input string, opts pipeline.Options, noCache bool, msg string) (*pipeline.Result, error) {
	data, err := readInput(input)
	if err != nil {
		return nil, err
	}
	opts.Input = data
	loggerFromContext(ctx).Debug("read snapshot", "path", input, "bytes", len(data))

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, msg)
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Failed")
		return nil, err
	}
	spinner.Stop()
	return res, nil
}

// readInput reads a snapshot file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// writeArtifacts writes each artifact next to base and returns the paths in
// name order. A single artifact goes to output itself when output is set.
func writeArtifacts(artifacts map[string][]byte, output, input string) ([]string, error) {
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	if output == "-" {
		if len(names) != 1 {
			return nil, fmt.Errorf("stdout output needs exactly one artifact, got %d", len(names))
		}
		return nil, writeOutput("-", artifacts[names[0]])
	}
	if output != "" && len(names) == 1 && basePath(output, input) != output {
		return []string{output}, writeOutput(output, artifacts[names[0]])
	}

	base := basePath(output, input)
	if input == "-" && output == "" {
		base = "snapshot"
	}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := base + "." + name
		if err := writeOutput(p, artifacts[name]); err != nil {
			return nil, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
