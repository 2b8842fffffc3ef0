package db

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHConfig describes a jump host the database connection is tunnelled through
type SSHConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	KeyPath        string
	KnownHostsPath string
}

// SSHTunnel is an open SSH client that dials the database on the far side
type SSHTunnel struct {
	client *ssh.Client
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func sshAuthMethods(cfg *SSHConfig) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if cfg.KeyPath != "" {
		key, err := os.ReadFile(expandHome(cfg.KeyPath))
		if err != nil {
			log.Printf("ssh: read key %s: %v", cfg.KeyPath, err)
		} else {
			signer, err := ssh.ParsePrivateKey(key)
			if err != nil && cfg.Password != "" {
				signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(cfg.Password))
			}
			if err != nil {
				log.Printf("ssh: parse key %s: %v", cfg.KeyPath, err)
			} else {
				methods = append(methods, ssh.PublicKeys(signer))
			}
		}
	}

	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		if conn, err := net.Dial("unix", socket); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		} else {
			log.Printf("ssh: agent unavailable: %v", err)
		}
	}

	if cfg.Password != "" {
		methods = append(methods,
			ssh.Password(cfg.Password),
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = cfg.Password
				}
				return answers, nil
			}),
		)
	}
	return methods
}

// hostKeyCallback verifies against known_hosts when the file exists.
// Without one the host key is accepted, matching plain `ssh -o StrictHostKeyChecking=no`.
func hostKeyCallback(cfg *SSHConfig) ssh.HostKeyCallback {
	path := cfg.KnownHostsPath
	if path == "" {
		path = "~/.ssh/known_hosts"
	}
	path = expandHome(path)
	if _, err := os.Stat(path); err == nil {
		cb, err := knownhosts.New(path)
		if err == nil {
			return cb
		}
		log.Printf("ssh: load known_hosts %s: %v", path, err)
	}
	return ssh.InsecureIgnoreHostKey()
}

// NewSSHTunnel establishes an SSH connection
func NewSSHTunnel(cfg *SSHConfig) (*SSHTunnel, error) {
	if cfg == nil || cfg.Host == "" {
		return nil, fmt.Errorf("SSH host is required")
	}
	methods := sshAuthMethods(cfg)
	if len(methods) == 0 {
		return nil, fmt.Errorf("no valid SSH authentication methods found")
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}
	address := net.JoinHostPort(cfg.Host, fmt.Sprint(port))

	client, err := ssh.Dial("tcp", address, &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            methods,
		HostKeyCallback: hostKeyCallback(cfg),
		Timeout:         15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH %s: %w", address, err)
	}
	log.Printf("ssh: connected to %s", address)
	return &SSHTunnel{client: client}, nil
}

// Dial connects to a remote address through the tunnel
func (t *SSHTunnel) Dial(network, addr string) (net.Conn, error) {
	return t.client.Dial(network, addr)
}

// DialContext is Dial bounded by ctx; a connection that completes after ctx
// is done is closed instead of leaked.
func (t *SSHTunnel) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		conn, err := t.client.Dial(network, addr)
		ch <- result{conn, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if res := <-ch; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, ctx.Err()
	case res := <-ch:
		return res.conn, res.err
	}
}

// Close closes the SSH connection
func (t *SSHTunnel) Close() error {
	return t.client.Close()
}
