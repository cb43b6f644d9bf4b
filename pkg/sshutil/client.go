// Package sshutil provides the SSH client plumbing used by the SSH probe
// driver: auth method resolution (password, key file, agent, ~/.ssh/config
// identities) and host key verification.
package sshutil

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Client wraps an SSH connection with the address it was dialed against.
type Client struct {
	*ssh.Client
	Address string
}

// Options carries the credential reference for one connection attempt.
// Password is the resolved secret; it is never logged or persisted here.
type Options struct {
	User     string
	KeyFile  string
	Password string
}

// StrictHostKeyChecking controls host key verification behavior.
// When true, host keys are verified against ~/.ssh/known_hosts.
// When false (the probing default), host key verification is skipped -
// a reachability probe should not fail on first contact with a host.
var StrictHostKeyChecking = false

// Dial establishes a TCP connection and performs the SSH handshake with the
// resolved auth methods. The caller owns the returned client and must close it.
func Dial(address string, opts Options, timeout time.Duration) (*Client, error) {
	cfg, err := ClientConfig(address, opts, timeout)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, err
	}

	client, err := Handshake(conn, address, cfg, timeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Handshake performs the SSH protocol handshake and authentication over an
// established TCP connection. The connection is closed on failure.
func Handshake(conn net.Conn, address string, cfg *ssh.ClientConfig, timeout time.Duration) (*Client, error) {
	// Bound the handshake itself; a half-open host would otherwise hang here.
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return nil, err
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Clear the deadline so the session is usable after the handshake.
	if err := conn.SetDeadline(time.Time{}); err != nil {
		sshConn.Close()
		return nil, err
	}

	return &Client{
		Client:  ssh.NewClient(sshConn, chans, reqs),
		Address: address,
	}, nil
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// ClientConfig builds an ssh.ClientConfig from the credential reference.
// Auth methods are tried in order: explicit password, explicit key file,
// SSH agent, identity from ~/.ssh/config, default key locations.
func ClientConfig(address string, opts Options, timeout time.Duration) (*ssh.ClientConfig, error) {
	host := address
	if h, _, err := net.SplitHostPort(address); err == nil {
		host = h
	}

	user := opts.User
	if user == "" {
		user = configUser(host)
	}

	var authMethods []ssh.AuthMethod
	var encryptedKeys []string

	tryKeyFile := func(keyPath string) {
		keyAuth, err := keyFileAuth(keyPath)
		if err != nil {
			if _, ok := err.(*EncryptedKeyError); ok {
				encryptedKeys = append(encryptedKeys, keyPath)
			}
			// Missing or unparseable keys are silently skipped
			return
		}
		authMethods = append(authMethods, keyAuth)
	}

	if opts.Password != "" {
		authMethods = append(authMethods, ssh.Password(opts.Password))
	}

	if opts.KeyFile != "" {
		tryKeyFile(expandPath(opts.KeyFile))
	}

	if agentAuth := sshAgentAuth(); agentAuth != nil {
		authMethods = append(authMethods, agentAuth)
	}

	if identity := configIdentityFile(host); identity != "" && identity != opts.KeyFile {
		tryKeyFile(identity)
	}

	for _, keyPath := range defaultKeyFiles() {
		if keyPath == opts.KeyFile {
			continue
		}
		tryKeyFile(keyPath)
	}

	if len(authMethods) == 0 {
		if len(encryptedKeys) > 0 {
			return nil, fmt.Errorf("no usable SSH auth methods: key(s) %s are encrypted (add them with ssh-add)",
				strings.Join(encryptedKeys, ", "))
		}
		return nil, fmt.Errorf("no SSH auth methods available for %s", address)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey() //nolint:gosec // probing default, see StrictHostKeyChecking
	if StrictHostKeyChecking {
		cb, err := knownHostsCallback()
		if err != nil {
			return nil, err
		}
		hostKeyCallback = cb
	}

	return &ssh.ClientConfig{
		User:            user,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}, nil
}

// agentConn holds the reusable SSH agent connection.
var (
	agentConn     net.Conn
	agentClient   agent.ExtendedAgent
	agentConnOnce sync.Once
)

// sshAgentAuth returns an auth method using the SSH agent if available.
// The agent connection is reused across connections; probes run every tick
// and must not pile up agent sockets.
func sshAgentAuth() ssh.AuthMethod {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil
	}

	agentConnOnce.Do(func() {
		conn, err := net.Dial("unix", socket)
		if err != nil {
			return
		}
		agentConn = conn
		agentClient = agent.NewClient(conn)
	})

	if agentClient == nil {
		return nil
	}

	// Only return agent auth if the agent actually has keys.
	// An empty agent causes auth failures when placed before other methods.
	signers, err := agentClient.Signers()
	if err != nil || len(signers) == 0 {
		return nil
	}

	return ssh.PublicKeysCallback(agentClient.Signers)
}

// CloseAgent closes the SSH agent connection if one is open.
// Called once at process shutdown.
func CloseAgent() {
	if agentConn != nil {
		agentConn.Close()
	}
}

// keyFileAuth returns an auth method using a private key file.
// Returns EncryptedKeyError if the key requires a passphrase.
func keyFileAuth(keyPath string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		if strings.Contains(err.Error(), "encrypted") ||
			strings.Contains(err.Error(), "passphrase") ||
			isEncryptedPEM(key) {
			return nil, &EncryptedKeyError{Path: keyPath}
		}
		return nil, err
	}

	return ssh.PublicKeys(signer), nil
}

// configUser looks up the User directive for a host in ~/.ssh/config,
// falling back to the current user.
func configUser(host string) string {
	if user, err := ssh_config.GetStrict(host, "User"); err == nil && user != "" {
		return user
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

// configIdentityFile looks up the IdentityFile directive for a host in
// ~/.ssh/config. Returns empty string if none is configured.
func configIdentityFile(host string) string {
	identity, err := ssh_config.GetStrict(host, "IdentityFile")
	if err != nil || identity == "" {
		return ""
	}
	// ssh_config returns its own default for unmatched hosts; only use
	// entries that point at an existing file.
	path := expandPath(identity)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// defaultKeyFiles returns the standard private key locations in preference order.
func defaultKeyFiles() []string {
	home := homeDir()
	return []string{
		filepath.Join(home, ".ssh", "id_ed25519"),
		filepath.Join(home, ".ssh", "id_rsa"),
		filepath.Join(home, ".ssh", "id_ecdsa"),
	}
}

// knownHostsCallback loads ~/.ssh/known_hosts for strict host key checking.
func knownHostsCallback() (ssh.HostKeyCallback, error) {
	path := filepath.Join(homeDir(), ".ssh", "known_hosts")
	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load known_hosts: %w", err)
	}
	return callback, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// isEncryptedPEM checks if PEM data contains encryption markers.
func isEncryptedPEM(data []byte) bool {
	return strings.Contains(string(data), "ENCRYPTED")
}

// EncryptedKeyError is returned when an SSH key requires a passphrase.
type EncryptedKeyError struct {
	Path string
}

func (e *EncryptedKeyError) Error() string {
	return fmt.Sprintf("SSH key at %s is encrypted (passphrase protected)", e.Path)
}
