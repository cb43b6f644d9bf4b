package config

import (
	"net"
	"strconv"
	"time"
)

// Config represents the complete hostwatch configuration.
type Config struct {
	Targets []Target `yaml:"targets" mapstructure:"targets"`

	// IcmpInterval is the tick period for ICMP probes.
	IcmpInterval time.Duration `yaml:"icmp_interval" mapstructure:"icmp_interval"`

	// SshInterval is the tick period for SSH probes. SSH handshakes are
	// expensive, so this defaults to a longer cadence than ICMP.
	SshInterval time.Duration `yaml:"ssh_interval" mapstructure:"ssh_interval"`

	// ProbeTimeout bounds a single probe attempt of either kind.
	ProbeTimeout time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`

	// MaxInFlight caps the number of simultaneously executing probes.
	MaxInFlight int `yaml:"max_in_flight" mapstructure:"max_in_flight"`

	// HistorySize is the number of latency samples retained per target/kind.
	HistorySize int `yaml:"history_size" mapstructure:"history_size"`

	// DownThreshold is the consecutive-failure count at which a target is
	// classified as down rather than degraded.
	DownThreshold int `yaml:"down_threshold" mapstructure:"down_threshold"`
}

// Target defines one monitored host. Targets are immutable for the lifetime
// of a run; the engine never re-validates addresses or credentials.
type Target struct {
	// Address is the IP or hostname to probe.
	Address string `yaml:"address" mapstructure:"address"`

	// Label is an optional display name shown on the dashboard.
	Label string `yaml:"label" mapstructure:"label"`

	// Ping enables the ICMP probe for this target.
	Ping bool `yaml:"ping" mapstructure:"ping"`

	// SSH enables the SSH reachability/auth probe for this target.
	SSH bool `yaml:"ssh" mapstructure:"ssh"`

	// SSHPort is the SSH port (defaults to 22 when SSH is enabled).
	SSHPort int `yaml:"ssh_port" mapstructure:"ssh_port"`

	// SSHUser is the username for SSH authentication.
	SSHUser string `yaml:"ssh_user" mapstructure:"ssh_user"`

	// SSHKeyFile is a path to a private key used for SSH authentication.
	// When empty, the SSH agent and default key locations are tried.
	SSHKeyFile string `yaml:"ssh_key_file" mapstructure:"ssh_key_file"`

	// SSHPasswordEnv names an environment variable holding the SSH password.
	// The password itself is never stored in the config or logged.
	SSHPasswordEnv string `yaml:"ssh_password_env" mapstructure:"ssh_password_env"`
}

// ID returns the stable identifier for this target.
func (t Target) ID() string {
	return t.Address
}

// DisplayName returns the label when set, otherwise the address.
func (t Target) DisplayName() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Address
}

// SSHAddress returns the host:port string for SSH dialing.
func (t Target) SSHAddress() string {
	port := t.SSHPort
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(t.Address, strconv.Itoa(port))
}

// Default configuration values.
const (
	DefaultIcmpInterval  = 2 * time.Second
	DefaultSshInterval   = 10 * time.Second
	DefaultProbeTimeout  = 5 * time.Second
	DefaultMaxInFlight   = 32
	DefaultHistorySize   = 60
	DefaultDownThreshold = 3
)

// DefaultConfig returns a Config with sensible defaults and no targets.
func DefaultConfig() *Config {
	return &Config{
		IcmpInterval:  DefaultIcmpInterval,
		SshInterval:   DefaultSshInterval,
		ProbeTimeout:  DefaultProbeTimeout,
		MaxInFlight:   DefaultMaxInFlight,
		HistorySize:   DefaultHistorySize,
		DownThreshold: DefaultDownThreshold,
	}
}

// ApplyDefaults fills zero-valued settings with their defaults.
// Explicitly configured values are left untouched.
func (c *Config) ApplyDefaults() {
	if c.IcmpInterval == 0 {
		c.IcmpInterval = DefaultIcmpInterval
	}
	if c.SshInterval == 0 {
		c.SshInterval = DefaultSshInterval
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
	if c.MaxInFlight == 0 {
		c.MaxInFlight = DefaultMaxInFlight
	}
	if c.HistorySize == 0 {
		c.HistorySize = DefaultHistorySize
	}
	if c.DownThreshold == 0 {
		c.DownThreshold = DefaultDownThreshold
	}
	for i := range c.Targets {
		t := &c.Targets[i]
		if !t.Ping && !t.SSH {
			t.Ping = true
		}
		if t.SSH && t.SSHPort == 0 {
			t.SSHPort = 22
		}
	}
}
