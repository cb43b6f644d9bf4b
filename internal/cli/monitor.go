package cli

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/engine"
	"github.com/awhite/hostwatch/internal/errors"
	"github.com/awhite/hostwatch/internal/monitor"
	"github.com/awhite/hostwatch/internal/ui"
)

// Monitor command flags, shared between the root command and 'monitor'.
var (
	monitorIPFlag            string
	monitorSSHFlag           string
	monitorSimpleFlag        bool
	monitorIntervalFlag      string
	monitorSSHIntervalFlag   string
	monitorTimeoutFlag       string
	monitorMaxInFlightFlag   int
	monitorHistoryFlag       int
	monitorDownThresholdFlag int
)

// addMonitorFlags registers the monitor flag set on a command.
func addMonitorFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&monitorIPFlag, "ip", "", "ping targets, comma-separated addresses")
	cmd.Flags().StringVar(&monitorSSHFlag, "ssh", "", "SSH targets, comma-separated user@host[:port]")
	cmd.Flags().BoolVar(&monitorSimpleFlag, "simple", false, "plain text output instead of the TUI")
	cmd.Flags().StringVar(&monitorIntervalFlag, "interval", "", "ICMP probe interval (e.g., 2s, 500ms)")
	cmd.Flags().StringVar(&monitorSSHIntervalFlag, "ssh-interval", "", "SSH probe interval (e.g., 10s, 1m)")
	cmd.Flags().StringVar(&monitorTimeoutFlag, "timeout", "", "per-probe timeout (e.g., 5s)")
	cmd.Flags().IntVar(&monitorMaxInFlightFlag, "max-in-flight", 0, "ceiling on simultaneous probes")
	cmd.Flags().IntVar(&monitorHistoryFlag, "history", 0, "latency samples retained per target")
	cmd.Flags().IntVar(&monitorDownThresholdFlag, "down-threshold", 0, "consecutive failures before a target is down")
}

// monitorCommand resolves targets, starts the engine, and runs the dashboard
// until the user quits.
func monitorCommand() error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	eng, err := engine.Start(cfg.Targets, engine.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	defer eng.Stop()

	if monitorSimpleFlag || !ui.IsInteractive() {
		return runSimple(eng, cfg.IcmpInterval)
	}

	if noColorFlag {
		ui.DisableColor()
	} else {
		ui.ConfigureColorProfile(false)
	}

	model := monitor.NewModel(eng, monitor.DefaultRefreshInterval)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// resolveConfig builds the effective config from, in priority order: the
// --ip/--ssh flags, an explicit --config file, ~/.config/hostwatch/config.yaml,
// then the plain .iplist fallback.
func resolveConfig() (*config.Config, error) {
	var cfg *config.Config

	switch {
	case monitorIPFlag != "" || monitorSSHFlag != "":
		targets, err := config.ParseTargetFlags(monitorIPFlag, monitorSSHFlag)
		if err != nil {
			return nil, err
		}
		cfg = config.DefaultConfig()
		cfg.Targets = targets

	default:
		path, err := config.Find(configFlag)
		if err != nil {
			return nil, err
		}
		if path != "" {
			cfg, err = config.Load(path)
			if err != nil {
				return nil, err
			}
			break
		}

		// No config file: fall back to the plain target list
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		targets, err := config.LoadIPList(filepath.Join(dir, config.IPListFileName))
		if err != nil {
			return nil, errors.New(errors.ErrConfig,
				"No targets configured",
				"Run 'hostwatch init', or pass targets with --ip/--ssh")
		}
		cfg = config.DefaultConfig()
		cfg.Targets = targets
	}

	if err := applyTuningFlags(cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// applyTuningFlags overlays the cadence and sizing flags onto the config.
// Unset flags leave the config values alone.
func applyTuningFlags(cfg *config.Config) error {
	if monitorIntervalFlag != "" {
		d, err := parseIntervalFlag("interval", monitorIntervalFlag, 100*time.Millisecond)
		if err != nil {
			return err
		}
		cfg.IcmpInterval = d
	}
	if monitorSSHIntervalFlag != "" {
		d, err := parseIntervalFlag("ssh-interval", monitorSSHIntervalFlag, time.Second)
		if err != nil {
			return err
		}
		cfg.SshInterval = d
	}
	if monitorTimeoutFlag != "" {
		d, err := parseIntervalFlag("timeout", monitorTimeoutFlag, 100*time.Millisecond)
		if err != nil {
			return err
		}
		cfg.ProbeTimeout = d
	}
	if monitorMaxInFlightFlag > 0 {
		cfg.MaxInFlight = monitorMaxInFlightFlag
	}
	if monitorHistoryFlag > 0 {
		cfg.HistorySize = monitorHistoryFlag
	}
	if monitorDownThresholdFlag > 0 {
		cfg.DownThreshold = monitorDownThresholdFlag
	}
	return nil
}

// parseIntervalFlag parses a duration flag and enforces a floor so a typo
// can't turn the scheduler into a busy loop.
func parseIntervalFlag(name, value string, minimum time.Duration) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid --%s: %s", name, value),
			"Use a duration like 2s, 500ms, or 1m")
	}
	if d < minimum {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("--%s too short: %s", name, value),
			fmt.Sprintf("Minimum is %s", minimum))
	}
	return d, nil
}
