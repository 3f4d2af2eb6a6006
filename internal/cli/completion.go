package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dicomtag.

To load completions:

Bash:
  $ source <(dicomtag completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ dicomtag completion bash > /etc/bash_completion.d/dicomtag
  # macOS:
  $ dicomtag completion bash > $(brew --prefix)/etc/bash_completion.d/dicomtag

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ dicomtag completion zsh > "${fpath[1]}/_dicomtag"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ dicomtag completion fish | source

  # To load completions for each session, execute once:
  $ dicomtag completion fish > ~/.config/fish/completions/dicomtag.fish

PowerShell:
  PS> dicomtag completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> dicomtag completion powershell > dicomtag.ps1
  # and source this file from your PowerShell profile.
`,
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

// completeInputFile offers DICOM files and directories for the positional
// argument.
func completeInputFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{dicomExt[1:]}, cobra.ShellCompDirectiveFilterFileExt
}
