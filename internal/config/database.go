package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhath/ferrumdb/internal/db"
)

// Database describes the single connection a session opens at startup
type Database struct {
	Type              string `toml:"type"`   // postgres, mysql, sqlite
	Driver            string `toml:"driver"` // postgres only: pgx or pq
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	Username          string `toml:"username"`
	Password          string `toml:"password,omitempty"`
	EncryptedPassword string `toml:"encrypted_password,omitempty"`
	Database          string `toml:"database"` // file path for sqlite
	SSLMode           string `toml:"sslmode,omitempty"`

	// SSH tunnel
	SSHHost              string `toml:"ssh_host,omitempty"`
	SSHPort              int    `toml:"ssh_port,omitempty"`
	SSHUser              string `toml:"ssh_user,omitempty"`
	SSHPassword          string `toml:"ssh_password,omitempty"`
	EncryptedSSHPassword string `toml:"encrypted_ssh_password,omitempty"`
	SSHKeyPath           string `toml:"ssh_key_path,omitempty"`
	SSHKnownHosts        string `toml:"ssh_known_hosts,omitempty"`
}

// Validate reports a configuration error for descriptors no driver can open
func (d *Database) Validate() error {
	switch db.DriverType(d.Type) {
	case db.Postgres:
		switch d.Driver {
		case "", db.VariantPgx, db.VariantPq:
		default:
			return db.WrapConfigError(fmt.Errorf("unknown postgres driver %q (want pgx or pq)", d.Driver))
		}
	case db.MySQL:
	case db.SQLite:
		if d.Database == "" {
			return db.WrapConfigError(fmt.Errorf("sqlite database path is empty"))
		}
		return nil
	default:
		return db.WrapConfigError(fmt.Errorf("unknown database type %q", d.Type))
	}

	if d.Host == "" {
		return db.WrapConfigError(fmt.Errorf("host is empty"))
	}
	if d.Port <= 0 || d.Port > 65535 {
		return db.WrapConfigError(fmt.Errorf("port %d out of range", d.Port))
	}
	if d.Database == "" {
		return db.WrapConfigError(fmt.Errorf("database name is empty"))
	}
	if d.SSHPort < 0 || d.SSHPort > 65535 {
		return db.WrapConfigError(fmt.Errorf("ssh port %d out of range", d.SSHPort))
	}
	return nil
}

// ConnectParams maps the descriptor onto driver connection parameters
func (d *Database) ConnectParams() db.ConnectParams {
	p := db.ConnectParams{
		Host:     d.Host,
		Port:     d.Port,
		User:     d.Username,
		Password: d.Password,
		Database: d.Database,
		SSLMode:  d.SSLMode,
	}
	if d.SSHHost != "" {
		p.SSHConfig = &db.SSHConfig{
			Host:           d.SSHHost,
			Port:           d.SSHPort,
			User:           d.SSHUser,
			Password:       d.SSHPassword,
			KeyPath:        d.SSHKeyPath,
			KnownHostsPath: d.SSHKnownHosts,
		}
	}
	return p
}

// Label identifies the connection in history and the keyring. It never
// contains the password.
func (d *Database) Label() string {
	if db.DriverType(d.Type) == db.SQLite {
		return "sqlite:" + d.Database
	}
	return fmt.Sprintf("%s://%s@%s:%d/%s", d.Type, d.Username, d.Host, d.Port, d.Database)
}

// PasswordSource looks up a stored password by connection label
type PasswordSource interface {
	GetPassword(label string) (string, error)
}

// ResolvePassword fills an empty password from src. It reports whether a
// password was found.
func (d *Database) ResolvePassword(src PasswordSource) bool {
	if d.Password != "" || src == nil {
		return d.Password != ""
	}
	pw, err := src.GetPassword(d.Label())
	if err != nil || pw == "" {
		return false
	}
	d.Password = pw
	return true
}

// ParseDSN parses a postgres://, mysql:// or sqlite:// URL into a descriptor.
// Anything without a known scheme is treated as a sqlite file path.
func ParseDSN(dsn string) (Database, error) {
	var d Database

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		d.Type = string(db.Postgres)
		d.Driver = db.VariantPgx
		if err := d.fillFromURL(dsn, 5432); err != nil {
			return d, err
		}
	case strings.HasPrefix(dsn, "mysql://"):
		d.Type = string(db.MySQL)
		if err := d.fillFromURL(dsn, 3306); err != nil {
			return d, err
		}
	default:
		d.Type = string(db.SQLite)
		path := strings.TrimPrefix(dsn, "sqlite://")
		d.Database = strings.TrimPrefix(path, "file:")
	}
	return d, d.Validate()
}

func (d *Database) fillFromURL(dsn string, defaultPort int) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return db.WrapConfigError(err)
	}
	d.Host = u.Hostname()
	d.Port = defaultPort
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return db.WrapConfigError(fmt.Errorf("invalid port %q", port))
		}
		d.Port = n
	}
	d.Username = u.User.Username()
	d.Password, _ = u.User.Password()
	d.Database = strings.TrimPrefix(u.Path, "/")
	d.SSLMode = u.Query().Get("sslmode")
	return nil
}
