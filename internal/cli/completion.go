package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for drawgraph.

To load completions:

Bash:
  $ source <(drawgraph completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ drawgraph completion bash > /etc/bash_completion.d/drawgraph
  # macOS:
  $ drawgraph completion bash > $(brew --prefix)/etc/bash_completion.d/drawgraph

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ drawgraph completion zsh > "${fpath[1]}/_drawgraph"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ drawgraph completion fish | source

  # To load completions for each session, execute once:
  $ drawgraph completion fish > ~/.config/fish/completions/drawgraph.fish

PowerShell:
  PS> drawgraph completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> drawgraph completion powershell > drawgraph.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, root := cmd.OutOrStdout(), cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
