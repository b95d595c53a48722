package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the cargo-neat binary.

The script completes flags, the values of --policy and --format, and the
completion subcommand when the tool is run as cargo-neat. When it is run as "cargo neat", cargo's own completion handles
the subcommand name; arguments after it are not completed.

Bash, for the current shell or persisted:
  $ source <(cargo-neat completion bash)
  $ cargo-neat completion bash > ~/.local/share/bash-completion/completions/cargo-neat

Zsh (compinit must be enabled):
  $ cargo-neat completion zsh > "${fpath[1]}/_cargo-neat"

Fish:
  $ cargo-neat completion fish > ~/.config/fish/completions/cargo-neat.fish

PowerShell:
  PS> cargo-neat completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
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

	return cmd
}
