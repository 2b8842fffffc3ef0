package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config is the on-disk application configuration
type Config struct {
	Database Database `toml:"database"`
	Theme    Theme    `toml:"theme"`
	History  History  `toml:"history"`
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	BgSecondary   string `toml:"bg_secondary"`
	// Syntax is the chroma style used for the input line
	Syntax string `toml:"syntax"`
}

// History controls the query history store
type History struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path,omitempty"`
	RetentionDays int    `toml:"retention_days"`
	Limit         int    `toml:"limit"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Database: Database{
			Type:     "postgres",
			Driver:   "pgx",
			Host:     "localhost",
			Port:     5432,
			Username: "postgres",
			Password: "postgres",
			Database: "postgres",
		},
		Theme: Theme{
			// Nord
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			BgSecondary:   "#3B4252",
			Syntax:        "nord",
		},
		History: History{
			Enabled:       true,
			RetentionDays: 90,
			Limit:         1000,
		},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("ferrumdb/config.toml")
}

// Load reads the config at path, or at ConfigPath when path is empty.
// A missing file is created with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	defaults := DefaultConfig()
	if !md.IsDefined("theme") {
		cfg.Theme = defaults.Theme
	}
	if !md.IsDefined("history") {
		cfg.History = defaults.History
	}
	if cfg.Theme.Syntax == "" {
		cfg.Theme.Syntax = defaults.Theme.Syntax
	}

	cfg.Database.decryptSecrets()
	return &cfg, nil
}

// Save writes the config to path with owner-only permissions.
// Secrets are encrypted when a master key is available, otherwise they are
// written as plaintext.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	out := *c
	out.Database = c.Database.encryptSecrets()
	return toml.NewEncoder(f).Encode(out)
}

func (d *Database) decryptSecrets() {
	if d.EncryptedPassword == "" && d.EncryptedSSHPassword == "" {
		return
	}
	key, err := masterKey()
	if err != nil {
		log.Printf("config: master key unavailable: %v", err)
		return
	}
	if d.EncryptedPassword != "" {
		if plain, err := Decrypt(d.EncryptedPassword, key); err == nil {
			d.Password = plain
		} else {
			log.Printf("config: cannot decrypt password: %v", err)
		}
	}
	if d.EncryptedSSHPassword != "" {
		if plain, err := Decrypt(d.EncryptedSSHPassword, key); err == nil {
			d.SSHPassword = plain
		} else {
			log.Printf("config: cannot decrypt ssh password: %v", err)
		}
	}
}

// encryptSecrets returns a copy of d ready to be persisted
func (d Database) encryptSecrets() Database {
	if d.Password == "" && d.SSHPassword == "" {
		return d
	}
	key, err := masterKey()
	if err != nil {
		log.Printf("config: master key unavailable, saving plaintext: %v", err)
		d.EncryptedPassword = ""
		return d
	}
	if d.Password != "" {
		if enc, err := Encrypt(d.Password, key); err == nil {
			d.EncryptedPassword = enc
			d.Password = ""
		}
	}
	if d.SSHPassword != "" {
		if enc, err := Encrypt(d.SSHPassword, key); err == nil {
			d.EncryptedSSHPassword = enc
			d.SSHPassword = ""
		}
	}
	return d
}
