package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

// PostgresDriver implements Driver for PostgreSQL on top of either pgx or lib/pq
type PostgresDriver struct {
	db       *sql.DB
	tunnel   *SSHTunnel
	variant  string
	database string
}

func postgresDSN(params ConnectParams) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(params.User, params.Password),
		Host:   net.JoinHostPort(params.Host, fmt.Sprint(params.Port)),
		Path:   "/" + params.Database,
	}
	sslMode := params.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u.RawQuery = url.Values{"sslmode": {sslMode}}.Encode()
	return u.String()
}

// tunnelDialer satisfies pq.Dialer and pq.DialerContext through an SSH tunnel
type tunnelDialer struct {
	tunnel *SSHTunnel
	addr   string
}

func (t tunnelDialer) Dial(network, _ string) (net.Conn, error) {
	return t.tunnel.Dial(network, t.addr)
}

func (t tunnelDialer) DialTimeout(network, _ string, timeout time.Duration) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return t.tunnel.DialContext(ctx, network, t.addr)
}

func (t tunnelDialer) DialContext(ctx context.Context, network, _ string) (net.Conn, error) {
	return t.tunnel.DialContext(ctx, network, t.addr)
}

// Connect establishes connection to PostgreSQL
func (d *PostgresDriver) Connect(params ConnectParams) error {
	dsn := postgresDSN(params)
	remoteAddr := net.JoinHostPort(params.Host, fmt.Sprint(params.Port))

	if params.SSHConfig != nil && params.SSHConfig.Host != "" {
		tunnel, err := NewSSHTunnel(params.SSHConfig)
		if err != nil {
			return WrapConnectionError(fmt.Errorf("failed to create SSH tunnel: %w", err))
		}
		d.tunnel = tunnel
	}

	var (
		db  *sql.DB
		err error
	)
	if d.variant == VariantPq {
		db, err = d.openPq(dsn, remoteAddr)
	} else {
		db, err = d.openPgx(dsn, remoteAddr)
	}
	if err != nil {
		d.closeTunnel()
		return err
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	// sql.Open is lazy; surface bad credentials now rather than on the first query
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		d.closeTunnel()
		return WrapConnectionError(err)
	}

	d.db = db
	d.database = params.Database
	return nil
}

func (d *PostgresDriver) openPgx(dsn, remoteAddr string) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, WrapConfigError(err)
	}

	if d.tunnel != nil {
		tunnel := d.tunnel
		// The SSH server resolves the database host, not the local machine
		connConfig.LookupFunc = func(ctx context.Context, host string) ([]string, error) {
			return []string{host}, nil
		}
		connConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return tunnel.DialContext(ctx, network, remoteAddr)
		}
	}

	return sql.Open("pgx", stdlib.RegisterConnConfig(connConfig))
}

func (d *PostgresDriver) openPq(dsn, remoteAddr string) (*sql.DB, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, WrapConfigError(err)
	}
	if d.tunnel != nil {
		connector.Dialer(tunnelDialer{tunnel: d.tunnel, addr: remoteAddr})
	}
	return sql.OpenDB(connector), nil
}

func (d *PostgresDriver) closeTunnel() {
	if d.tunnel != nil {
		d.tunnel.Close()
		d.tunnel = nil
	}
}

// Close closes the database connection and SSH tunnel
func (d *PostgresDriver) Close() error {
	var dbErr error
	if d.db != nil {
		dbErr = d.db.Close()
	}

	if d.tunnel != nil {
		if err := d.tunnel.Close(); err != nil {
			if dbErr != nil {
				return fmt.Errorf("db close err: %v, tunnel close err: %w", dbErr, err)
			}
			return err
		}
	}
	return dbErr
}

// Execute runs a query and returns results
func (d *PostgresDriver) Execute(ctx context.Context, query string) (*QueryResult, error) {
	return executeQuery(ctx, d.db, query)
}

// Ping checks if database is reachable
func (d *PostgresDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *PostgresDriver) Type() DriverType {
	return Postgres
}

// CurrentDatabase returns the database named in the connection descriptor
func (d *PostgresDriver) CurrentDatabase() string {
	return d.database
}

// CurrentSchema returns the first schema on the search_path
func (d *PostgresDriver) CurrentSchema(ctx context.Context) (string, error) {
	return queryScalar(ctx, d.db, "SELECT current_schema()")
}
