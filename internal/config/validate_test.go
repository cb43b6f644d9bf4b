package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Targets = []Target{
		{Address: "8.8.8.8", Ping: true},
		{Address: "10.0.0.2", SSH: true, SSHPort: 22, SSHUser: "root"},
	}
	return cfg
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"nil targets", func(c *Config) { c.Targets = nil }},
		{"zero icmp interval", func(c *Config) { c.IcmpInterval = 0 }},
		{"negative ssh interval", func(c *Config) { c.SshInterval = -time.Second }},
		{"zero timeout", func(c *Config) { c.ProbeTimeout = 0 }},
		{"zero max in flight", func(c *Config) { c.MaxInFlight = 0 }},
		{"zero history", func(c *Config) { c.HistorySize = 0 }},
		{"zero threshold", func(c *Config) { c.DownThreshold = 0 }},
		{"empty address", func(c *Config) { c.Targets[0].Address = "" }},
		{"no probe kind", func(c *Config) { c.Targets[0].Ping = false }},
		{"ssh without user", func(c *Config) { c.Targets[1].SSHUser = "" }},
		{"duplicate target", func(c *Config) { c.Targets[1] = c.Targets[0] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestTargetHelpers(t *testing.T) {
	tgt := Target{Address: "10.0.0.2", SSH: true, SSHUser: "root"}

	assert.Equal(t, "10.0.0.2", tgt.ID())
	assert.Equal(t, "10.0.0.2", tgt.DisplayName())
	assert.Equal(t, "10.0.0.2:22", tgt.SSHAddress(), "port defaults to 22")

	tgt.Label = "build box"
	tgt.SSHPort = 2222
	assert.Equal(t, "build box", tgt.DisplayName())
	assert.Equal(t, "10.0.0.2:2222", tgt.SSHAddress())
}
