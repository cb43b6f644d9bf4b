package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/awhite/hostwatch/internal/config"
	"github.com/awhite/hostwatch/internal/errors"
	"github.com/awhite/hostwatch/internal/ui"
)

// initCommand creates ~/.config/hostwatch/config.yaml through an interactive
// form. With force, an existing config is overwritten without asking.
func initCommand(force bool) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	if existing, _ := config.Find(""); existing != "" && !force {
		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", existing)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	var ipInput, sshInput, intervalInput string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Ping targets").
				Description("Comma-separated addresses to monitor over ICMP").
				Placeholder("192.168.1.10, 192.168.1.11, gateway.local").
				Value(&ipInput),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("SSH targets (optional)").
				Description("Comma-separated user@host[:port] entries").
				Placeholder("ops@build-box, admin@10.0.0.5:2222").
				Value(&sshInput),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Ping interval").
				Description("How often to probe each target over ICMP").
				Placeholder("2s").
				Value(&intervalInput).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil // keep the default
					}
					if _, err := time.ParseDuration(s); err != nil {
						return fmt.Errorf("use a duration like 2s or 500ms")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility, or write the config file by hand")
	}

	targets, err := config.ParseTargetFlags(ipInput, sshInput)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New(errors.ErrConfig,
			"No targets entered",
			"Provide at least one ping or SSH target")
	}

	cfg := config.DefaultConfig()
	cfg.Targets = targets
	if v := strings.TrimSpace(intervalInput); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			cfg.IcmpInterval = d
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Printf("%s Wrote %s (%d targets)\n", ui.SymbolSuccess, configPath, len(targets))
	fmt.Println("Run 'hostwatch' to start monitoring.")
	return nil
}
