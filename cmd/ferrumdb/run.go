package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhath/ferrumdb/internal/config"
	"github.com/nhath/ferrumdb/internal/db"
	"github.com/nhath/ferrumdb/internal/history"
	"github.com/nhath/ferrumdb/internal/session"
	"github.com/nhath/ferrumdb/internal/ui"
)

// loadConfig reads the config file and applies --dsn
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagDSN != "" {
		d, err := config.ParseDSN(flagDSN)
		if err != nil {
			return nil, err
		}
		cfg.Database = d
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ui.InitStyles(cfg.Theme)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	label := cfg.Database.Label()
	orch := &session.Orchestrator{Label: label}
	if cfg.History.Enabled {
		store, err := openHistory(cfg.History)
		if err != nil {
			log.Printf("history disabled: %v", err)
			fmt.Fprintf(os.Stderr, "warning: history disabled: %v\n", err)
		} else {
			defer store.Close()
			orch.Recorder = store
		}
	}

	state := session.NewState()
	driver, err := connect(ctx, &cfg.Database)
	if err != nil {
		// the session still starts; every submission reports it is not connected
		log.Printf("connect %s: %v", label, err)
		fmt.Fprintf(os.Stderr, "%v\n", db.Classify(err))
	} else {
		defer driver.Close()
		if err := state.AttachConnection(driver); err != nil {
			return err
		}
		state.SetDatabase(driver.CurrentDatabase())
		if schema, err := driver.CurrentSchema(ctx); err == nil {
			state.SetSchema(schema)
		} else {
			log.Printf("current schema: %v", err)
		}
	}

	ctrl := session.NewController(state, orch)
	p := tea.NewProgram(ui.NewModel(ctx, ctrl, label, cfg.Theme), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// connect validates d, fills a missing password from the keyring and opens the driver
func connect(ctx context.Context, d *config.Database) (db.Driver, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Password == "" && db.DriverType(d.Type) != db.SQLite {
		if ks, err := config.NewKeyringStore(); err == nil {
			d.ResolvePassword(ks)
		} else {
			log.Printf("keyring: %v", err)
		}
	}

	driver, err := db.NewDriver(db.DriverType(d.Type), d.Driver)
	if err != nil {
		return nil, err
	}
	if err := driver.Connect(d.ConnectParams()); err != nil {
		return nil, err
	}
	if err := driver.Ping(ctx); err != nil {
		driver.Close()
		return nil, err
	}
	return driver, nil
}

func openHistory(h config.History) (*history.Store, error) {
	path := h.Path
	if path == "" {
		p, err := history.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return history.NewStore(path, history.Options{
		RetentionDays: h.RetentionDays,
		Limit:         h.Limit,
	})
}
