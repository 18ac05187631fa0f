package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/phallocators/allocviz/pkg/pipeline"
)

var snapshotKinds = []string{"auto", "bitmap", "buddy", "linkedlist"}

// completionCommand prints a shell completion script for the root command.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for allocviz to stdout.

Besides subcommands and flag names, the script completes the values of
--kind, --format and --graph-format.

  $ source <(allocviz completion bash)
  $ allocviz completion zsh > "${fpath[1]}/_allocviz"
  $ allocviz completion fish > ~/.config/fish/completions/allocviz.fish
  PS> allocviz completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(stdout, true)
			case "zsh":
				return root.GenZshCompletion(stdout)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(stdout)
			}
		},
	}
	return cmd
}

// registerValueCompletions attaches value completion to the kind and format
// flags of every subcommand that declares them.
func registerValueCompletions(root *cobra.Command) {
	values := map[string][]string{
		"kind":         snapshotKinds,
		"format":       sortedKeys(pipeline.ValidFormats),
		"graph-format": sortedKeys(pipeline.ValidGraphFormats),
	}
	for _, cmd := range root.Commands() {
		for flag, vals := range values {
			if flag == "format" && cmd.Name() == "graph" {
				vals = values["graph-format"]
			}
			if cmd.Flags().Lookup(flag) == nil {
				continue
			}
			_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(vals, cobra.ShellCompDirectiveNoFileComp))
		}
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
