package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
)

// DriverType represents supported database types
type DriverType string

const (
	Postgres DriverType = "postgres"
	MySQL    DriverType = "mysql"
	SQLite   DriverType = "sqlite"
)

// Postgres driver variants
const (
	VariantPgx = "pgx"
	VariantPq  = "pq"
)

// ConnectParams holds database connection details
type ConnectParams struct {
	Host      string
	Port      int
	User      string
	Password  string
	Database  string
	SSLMode   string     // postgres only, defaults to disable
	SSHConfig *SSHConfig // Optional SSH tunnel config
}

// Driver defines the interface for database operations
type Driver interface {
	Connect(params ConnectParams) error
	Close() error
	Execute(ctx context.Context, query string) (*QueryResult, error)
	Ping(ctx context.Context) error
	Type() DriverType
	CurrentDatabase() string
	CurrentSchema(ctx context.Context) (string, error)
}

// QueryResult contains the raw, string-rendered output of one statement
type QueryResult struct {
	Columns      []string
	Rows         [][]string
	ExecTime     time.Duration
	RowCount     int
	IsSelect     bool
	AffectedRows int64
	// AffectedUnknown is set when the driver could not report AffectedRows
	AffectedUnknown bool
}

// NewDriver creates a new driver instance by type. variant only matters for
// postgres, where it picks between pgx (default) and lib/pq.
func NewDriver(driverType DriverType, variant string) (Driver, error) {
	switch driverType {
	case Postgres:
		switch variant {
		case "", VariantPgx:
			return &PostgresDriver{variant: VariantPgx}, nil
		case VariantPq:
			return &PostgresDriver{variant: VariantPq}, nil
		}
		return nil, WrapConfigError(fmt.Errorf("unknown postgres driver: %s", variant))
	case MySQL:
		return &MySQLDriver{}, nil
	case SQLite:
		return &SQLiteDriver{}, nil
	default:
		return nil, WrapConfigError(fmt.Errorf("unknown driver type: %s", driverType))
	}
}

var rowReturningPrefixes = []string{
	"SELECT", "WITH", "EXPLAIN", "DESCRIBE", "DESC ", "SHOW", "PRAGMA", "VALUES", "TABLE ",
}

// returningClause matches a RETURNING clause on INSERT, UPDATE or DELETE
var returningClause = regexp.MustCompile(`\bRETURNING\b`)

// returnsRows reports whether query should be run through QueryContext
func returnsRows(query string) bool {
	trimmed := strings.ToUpper(stripLeadingComments(query))
	for _, p := range rowReturningPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return returningClause.MatchString(trimmed)
}

// stripLeadingComments drops whitespace, -- line comments and /* */ block
// comments from the front of query
func stripLeadingComments(query string) string {
	for {
		query = strings.TrimSpace(query)
		switch {
		case strings.HasPrefix(query, "--"):
			end := strings.IndexByte(query, '\n')
			if end < 0 {
				return ""
			}
			query = query[end+1:]
		case strings.HasPrefix(query, "/*"):
			end := strings.Index(query[2:], "*/")
			if end < 0 {
				return ""
			}
			query = query[end+4:]
		default:
			return query
		}
	}
}

// executeQuery executes a query and returns results
func executeQuery(ctx context.Context, db *sql.DB, query string) (*QueryResult, error) {
	if db == nil {
		return nil, WrapConnectionError(fmt.Errorf("not connected"))
	}
	start := time.Now()
	if returnsRows(query) {
		return executeSelect(ctx, db, query, start)
	}
	return executeDML(ctx, db, query, start)
}

// executeSelect executes a row-returning statement
func executeSelect(ctx context.Context, db *sql.DB, query string, start time.Time) (*QueryResult, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, WrapResultError(err)
	}
	if len(columns) == 0 {
		// no result set; sqlite only steps the statement on Next
		for rows.Next() {
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return &QueryResult{
			Columns:         []string{},
			Rows:            [][]string{},
			ExecTime:        time.Since(start),
			AffectedUnknown: true,
		}, nil
	}
	results := [][]string{}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, WrapResultError(err)
		}

		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &QueryResult{
		Columns:  columns,
		Rows:     results,
		ExecTime: time.Since(start),
		RowCount: len(results),
		IsSelect: true,
	}, nil
}

// executeDML executes INSERT/UPDATE/DELETE and DDL statements
func executeDML(ctx context.Context, db *sql.DB, query string, start time.Time) (*QueryResult, error) {
	result, err := db.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}
	affected, known := rowsAffected(result)
	return &QueryResult{
		Columns:         []string{},
		Rows:            [][]string{},
		ExecTime:        time.Since(start),
		IsSelect:        false,
		AffectedRows:    affected,
		AffectedUnknown: !known,
	}, nil
}

// rowsAffected reports the affected-row count, or false when the driver
// cannot provide one
func rowsAffected(result sql.Result) (int64, bool) {
	n, err := result.RowsAffected()
	if err != nil {
		log.Printf("rows affected unavailable: %v", err)
		return 0, false
	}
	return n, true
}

// formatValue converts interface{} to string for display
func formatValue(v interface{}) string {
	if v == nil {
		return "NULL"
	}

	switch val := v.(type) {
	case []byte:
		return string(val)
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// queryScalar runs a single-value lookup such as current_schema()
func queryScalar(ctx context.Context, db *sql.DB, query string) (string, error) {
	if db == nil {
		return "", WrapConnectionError(fmt.Errorf("not connected"))
	}
	var v sql.NullString
	if err := db.QueryRowContext(ctx, query).Scan(&v); err != nil {
		return "", err
	}
	return v.String, nil
}
