package config

import (
	"fmt"

	"github.com/awhite/hostwatch/internal/errors"
)

// Validate checks a Config for problems that would prevent a run from
// starting. Probe-time failures (down hosts, bad credentials) are not
// validation errors; only structurally broken configuration is.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig, "No configuration provided", "")
	}

	if len(cfg.Targets) == 0 {
		return errors.New(errors.ErrConfig,
			"No targets configured",
			"Add targets with --ip/--ssh, or run 'hostwatch init'")
	}

	if cfg.IcmpInterval <= 0 || cfg.SshInterval <= 0 {
		return errors.New(errors.ErrConfig,
			"Probe intervals must be positive durations",
			"Use values like 2s or 500ms")
	}

	if cfg.ProbeTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"Probe timeout must be a positive duration",
			"Use values like 5s")
	}

	if cfg.MaxInFlight <= 0 {
		return errors.New(errors.ErrConfig,
			"max_in_flight must be at least 1", "")
	}

	if cfg.HistorySize <= 0 {
		return errors.New(errors.ErrConfig,
			"history_size must be at least 1", "")
	}

	if cfg.DownThreshold <= 0 {
		return errors.New(errors.ErrConfig,
			"down_threshold must be at least 1", "")
	}

	seen := make(map[string]bool, len(cfg.Targets))
	for _, t := range cfg.Targets {
		if t.Address == "" {
			return errors.New(errors.ErrConfig,
				"Target with empty address",
				"Every target needs an IP or hostname")
		}
		if !t.Ping && !t.SSH {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Target %s has no probe kind enabled", t.Address),
				"Enable ping, ssh, or both")
		}
		if t.SSH && t.SSHUser == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("SSH target %s has no user", t.Address),
				"Set ssh_user, or use the user@host form with --ssh")
		}
		if seen[t.ID()] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Duplicate target: %s", t.ID()),
				"Each address may appear only once")
		}
		seen[t.ID()] = true
	}

	return nil
}
