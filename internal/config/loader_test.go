package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
targets:
  - address: 8.8.8.8
    label: Google DNS
  - address: 10.0.0.5
    ssh: true
    ssh_user: deploy
icmp_interval: 1s
history_size: 120
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Targets, 2)
	assert.Equal(t, "8.8.8.8", cfg.Targets[0].Address)
	assert.Equal(t, "Google DNS", cfg.Targets[0].Label)
	assert.True(t, cfg.Targets[0].Ping, "ping defaults on when no kind set")

	assert.True(t, cfg.Targets[1].SSH)
	assert.Equal(t, 22, cfg.Targets[1].SSHPort, "ssh port defaults to 22")

	// Explicit values kept, unset values defaulted
	assert.Equal(t, time.Second, cfg.IcmpInterval)
	assert.Equal(t, 120, cfg.HistorySize)
	assert.Equal(t, DefaultSshInterval, cfg.SshInterval)
	assert.Equal(t, DefaultDownThreshold, cfg.DownThreshold)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Targets = []Target{{Address: "1.1.1.1", Label: "Cloudflare DNS", Ping: true}}

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Targets, 1)
	assert.Equal(t, "1.1.1.1", loaded.Targets[0].Address)
	assert.Equal(t, "Cloudflare DNS", loaded.Targets[0].Label)
	assert.Equal(t, DefaultIcmpInterval, loaded.IcmpInterval)
}

func TestLoadIPList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".iplist")

	content := `
# primary DNS resolvers
8.8.8.8 Google DNS
1.1.1.1

10.0.0.7 rack 3 switch
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	targets, err := LoadIPList(path)
	require.NoError(t, err)
	require.Len(t, targets, 3)

	assert.Equal(t, "8.8.8.8", targets[0].Address)
	assert.Equal(t, "Google DNS", targets[0].Label)
	assert.Equal(t, "1.1.1.1", targets[1].Address)
	assert.Empty(t, targets[1].Label)
	assert.Equal(t, "rack 3 switch", targets[2].Label, "multi-word labels joined")

	for _, tgt := range targets {
		assert.True(t, tgt.Ping)
		assert.False(t, tgt.SSH)
	}
}

func TestLoadIPListMissing(t *testing.T) {
	_, err := LoadIPList(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestParseTargetFlags(t *testing.T) {
	targets, err := ParseTargetFlags("8.8.8.8, 1.1.1.1", "root@10.0.0.2,admin@db.internal:2222")
	require.NoError(t, err)
	require.Len(t, targets, 4)

	assert.Equal(t, "8.8.8.8", targets[0].Address)
	assert.False(t, targets[0].SSH)

	ssh1 := targets[2]
	assert.Equal(t, "10.0.0.2", ssh1.Address)
	assert.Equal(t, "root", ssh1.SSHUser)
	assert.Equal(t, 22, ssh1.SSHPort)
	assert.True(t, ssh1.SSH)
	assert.True(t, ssh1.Ping)

	ssh2 := targets[3]
	assert.Equal(t, "db.internal", ssh2.Address)
	assert.Equal(t, "admin", ssh2.SSHUser)
	assert.Equal(t, 2222, ssh2.SSHPort)
	assert.Equal(t, "admin@db.internal:2222", ssh2.Label)
}

func TestParseTargetFlagsInvalid(t *testing.T) {
	tests := []struct {
		name string
		ssh  string
	}{
		{"missing user", "10.0.0.2"},
		{"empty user", "@10.0.0.2"},
		{"bad port", "root@10.0.0.2:notaport"},
		{"port out of range", "root@10.0.0.2:70000"},
		{"missing host", "root@:22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTargetFlags("", tt.ssh)
			assert.Error(t, err)
		})
	}
}

func TestParseTargetFlagsEmpty(t *testing.T) {
	targets, err := ParseTargetFlags("", "")
	require.NoError(t, err)
	assert.Empty(t, targets)
}
