package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/awhite/hostwatch/internal/errors"
)

const (
	// ConfigDirName is the directory under ~/.config holding hostwatch files.
	ConfigDirName = "hostwatch"
	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
	// IPListFileName is the plain-text target list file name.
	IPListFileName = ".iplist"
)

// Dir returns the hostwatch config directory (~/.config/hostwatch).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Can't determine home directory",
			"Set HOME or pass --config with an explicit path")
	}
	return filepath.Join(home, ".config", ConfigDirName), nil
}

// Find locates the config file using the search order:
//  1. Explicit path (from --config flag)
//  2. ~/.config/hostwatch/config.yaml
//
// Returns the path, or empty string if no config file exists.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Specified config file not found: "+explicit,
				"Check the path is correct")
		}
		return explicit, nil
	}

	dir, err := Dir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", nil
}

// Load reads config from the specified path. Both YAML and JSON files are
// accepted; viper dispatches on the extension.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'hostwatch init' to create one, or specify a path with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML or JSON")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Config file has invalid structure",
			"Compare against the example in 'hostwatch init'")
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// Save writes the config as YAML to the specified path, creating the parent
// directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't create config directory",
			"Check directory permissions")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't encode config", "")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't write config file: "+path,
			"Check file permissions")
	}
	return nil
}

// LoadIPList parses the plain-text target list format: one target per line as
// "address [label...]", with blank lines and '#' comments ignored.
func LoadIPList(path string) ([]Target, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't read target list: "+path,
			"Create it with one address per line, or run 'hostwatch init'")
	}

	var targets []Target
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		t := Target{Address: parts[0], Ping: true}
		if len(parts) > 1 {
			t.Label = strings.Join(parts[1:], " ")
		}
		targets = append(targets, t)
	}

	return targets, nil
}

// ParseTargetFlags builds targets from the --ip and --ssh command-line flags.
// ipList is a comma-separated list of addresses; sshList is a comma-separated
// list of user@host[:port] entries.
func ParseTargetFlags(ipList, sshList string) ([]Target, error) {
	var targets []Target

	for _, ip := range splitList(ipList) {
		targets = append(targets, Target{Address: ip, Ping: true})
	}

	for _, entry := range splitList(sshList) {
		t, err := parseSSHTarget(entry)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}

	return targets, nil
}

// parseSSHTarget parses a single user@host[:port] entry.
func parseSSHTarget(entry string) (Target, error) {
	atIdx := strings.Index(entry, "@")
	if atIdx <= 0 {
		return Target{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid SSH target: %s", entry),
			"Use the form user@host or user@host:port")
	}

	user := entry[:atIdx]
	hostPort := entry[atIdx+1:]

	host := hostPort
	port := 22
	if colonIdx := strings.LastIndex(hostPort, ":"); colonIdx != -1 {
		parsed, err := strconv.Atoi(hostPort[colonIdx+1:])
		if err != nil || parsed <= 0 || parsed > 65535 {
			return Target{}, errors.New(errors.ErrConfig,
				fmt.Sprintf("Invalid port in SSH target: %s", entry),
				"Ports are numbers between 1 and 65535")
		}
		host = hostPort[:colonIdx]
		port = parsed
	}

	if host == "" {
		return Target{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Missing host in SSH target: %s", entry),
			"Use the form user@host or user@host:port")
	}

	return Target{
		Address: host,
		Label:   entry,
		Ping:    true,
		SSH:     true,
		SSHPort: port,
		SSHUser: user,
	}, nil
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
