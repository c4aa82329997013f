package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the command that generates shell completion
// scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for the given shell.

Load it in the current session:

  bash:        source <(screenlint completion bash)
  zsh:         source <(screenlint completion zsh)
  fish:        screenlint completion fish | source
  powershell:  screenlint completion powershell | Out-String | Invoke-Expression

To load completions in every session, write the script where your shell
looks for them:

  bash:  screenlint completion bash > /etc/bash_completion.d/screenlint
  zsh:   screenlint completion zsh > "${fpath[1]}/_screenlint"
  fish:  screenlint completion fish > ~/.config/fish/completions/screenlint.fish

Zsh needs compinit enabled; add "autoload -U compinit; compinit" to
~/.zshrc if completion is not already active.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}
