package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for lehmer.

Bash:
  $ source <(lehmer completion bash)

  # Load for every session (Linux):
  $ lehmer completion bash > /etc/bash_completion.d/lehmer

Zsh:
  # Enable completion once if your shell does not already:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ lehmer completion zsh > "${fpath[1]}/_lehmer"

Fish:
  $ lehmer completion fish > ~/.config/fish/completions/lehmer.fish

PowerShell:
  PS> lehmer completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
