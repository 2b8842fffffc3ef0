package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Kind classifies a database failure
type Kind int

const (
	KindUnknown Kind = iota
	KindConnection
	KindQuery
	KindResult
	KindConfig
)

// Label returns the human readable prefix used in one-line error messages
func (k Kind) Label() string {
	switch k {
	case KindConnection:
		return "Connection error"
	case KindQuery:
		return "Query error"
	case KindResult:
		return "Result error"
	case KindConfig:
		return "Configuration error"
	default:
		return "Unknown error"
	}
}

func (k Kind) String() string { return k.Label() }

// Error is a classified database failure
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Label(), e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(kind Kind, err error) error {
	if err == nil {
		return &Error{Kind: kind, Detail: "unknown failure"}
	}
	return &Error{Kind: kind, Detail: err.Error(), Err: err}
}

// WrapConnectionError marks err as a connection failure
func WrapConnectionError(err error) error { return wrap(KindConnection, err) }

// WrapQueryError marks err as a failure of the submitted statement
func WrapQueryError(err error) error { return wrap(KindQuery, err) }

// WrapResultError marks err as a failure to decode the result set
func WrapResultError(err error) error { return wrap(KindResult, err) }

// WrapConfigError marks err as an invalid connection descriptor
func WrapConfigError(err error) error { return wrap(KindConfig, err) }

// Classify maps any error returned by a driver into the error taxonomy.
// Driver-specific errors are looked up through the whole chain first so a
// server message wins over the generic text of a wrapper.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &Error{Kind: sqlStateKind(pgErr.Code), Detail: pgErr.Message, Err: err}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &Error{Kind: sqlStateKind(string(pqErr.Code)), Detail: pqErr.Message, Err: err}
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		kind := KindQuery
		switch myErr.Number {
		case 1044, 1045, 1049, 1130, 1203:
			kind = KindConnection
		}
		return &Error{Kind: kind, Detail: myErr.Message, Err: err}
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrPerm, sqlite3.ErrIoErr:
			return &Error{Kind: KindConnection, Detail: liteErr.Error(), Err: err}
		}
		return &Error{Kind: KindQuery, Detail: liteErr.Error(), Err: err}
	}

	var parseErr *pgconn.ParseConfigError
	if errors.As(err, &parseErr) {
		return &Error{Kind: KindConfig, Detail: parseErr.Error(), Err: err}
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connErr),
		errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindConnection, Detail: err.Error(), Err: err}
	case errors.Is(err, sql.ErrNoRows):
		return &Error{Kind: KindResult, Detail: err.Error(), Err: err}
	}

	return &Error{Kind: KindUnknown, Detail: err.Error(), Err: err}
}

// sqlStateKind treats connection exceptions (08), authorization failures (28)
// and unknown catalogs (3D) as connection errors; every other SQLSTATE means
// the server rejected the statement.
func sqlStateKind(code string) Kind {
	if len(code) < 2 {
		return KindQuery
	}
	switch code[:2] {
	case "08", "28", "3D":
		return KindConnection
	}
	return KindQuery
}
