package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/awhite/hostwatch/internal/errors"
)

// Command-specific flags
var initForce bool

// monitorCmd starts the TUI monitoring dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live ICMP/SSH reachability dashboard",
	Long: `Start the interactive dashboard showing live reachability and latency
for all configured targets.

Each target is probed over ICMP (and SSH, when configured) on independent
intervals. Cards show current status, latency sparklines over the retained
history, and success rates; the detail view adds percentile breakdowns.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Refresh now
  s           Cycle sort order (default/name/latency/status)
  up/k        Select previous target
  down/j      Select next target
  Enter       Expand selected target details
  Esc         Collapse / go back
  ?           Show help

Examples:
  hostwatch monitor
  hostwatch monitor --ip 192.168.1.10,192.168.1.11
  hostwatch monitor --ssh ops@build-box --interval 1s
  hostwatch monitor --simple`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand()
	},
}

// initCmd creates the hostwatch configuration interactively
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the hostwatch configuration",
	Long: `Initialize the hostwatch configuration file interactively.

Prompts for ping and SSH targets and writes
~/.config/hostwatch/config.yaml.

Examples:
  hostwatch init
  hostwatch init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

// configCmd prints the resolved configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration hostwatch would run with, after applying the
config file, flags, and defaults.

Examples:
  hostwatch config
  hostwatch config --ip 10.0.0.1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCommand()
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for hostwatch.

Examples:
  # Bash
  hostwatch completion bash > /etc/bash_completion.d/hostwatch

  # Zsh
  hostwatch completion zsh > "${fpath[1]}/_hostwatch"

  # Fish
  hostwatch completion fish > ~/.config/fish/completions/hostwatch.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	addMonitorFlags(monitorCmd)
	addMonitorFlags(configCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	// Register all commands
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}
