package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Persistent flags
var (
	configFlag  string
	noColorFlag bool
)

// rootCmd is the base command. Running it bare starts the dashboard, so
// 'hostwatch' alone does the obvious thing.
var rootCmd = &cobra.Command{
	Use:   "hostwatch",
	Short: "Terminal dashboard for ICMP and SSH host monitoring",
	Long: `hostwatch probes your hosts over ICMP and SSH on independent cadences
and renders a live terminal dashboard: per-host status, latency history
sparklines, success rates, and percentile breakdowns.

Targets come from ~/.config/hostwatch/config.yaml, a plain .iplist file,
or the --ip/--ssh flags.

Examples:
  hostwatch
  hostwatch --ip 192.168.1.10,192.168.1.11
  hostwatch --ssh ops@build-box --ip 10.0.0.1
  hostwatch init`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand()
	},
}

// Execute runs the root command and exits non-zero on error. Errors carry
// their own formatting (message plus suggestion), so print them as-is.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable color output")

	// The root command doubles as 'monitor', so it takes the same flags
	addMonitorFlags(rootCmd)
}
