package session

import (
	"fmt"
	"time"

	"github.com/nhath/ferrumdb/internal/db"
)

// QueryResult is the tabular outcome of one successful execution.
// It is built once by NewQueryResult and never modified afterwards; callers
// must treat the slices returned by Headers and Rows as read-only.
type QueryResult struct {
	headers     []string
	rows        [][]string
	affected    int64
	hasAffected bool
	execTime    time.Duration
}

// NewQueryResult validates that every row is as wide as headers.
// affected is nil when the statement reported no affected-row count.
func NewQueryResult(headers []string, rows [][]string, affected *int64, execTime time.Duration) (*QueryResult, error) {
	for i, row := range rows {
		if len(row) != len(headers) {
			return nil, db.WrapResultError(fmt.Errorf("row %d has %d values for %d columns", i+1, len(row), len(headers)))
		}
	}
	if execTime < 0 {
		execTime = 0
	}
	r := &QueryResult{
		headers:  headers,
		rows:     rows,
		execTime: execTime,
	}
	if affected != nil {
		r.affected = *affected
		r.hasAffected = true
	}
	return r, nil
}

func (r *QueryResult) Headers() []string { return r.headers }

func (r *QueryResult) Rows() [][]string { return r.rows }

func (r *QueryResult) RowCount() int { return len(r.rows) }

func (r *QueryResult) ColumnCount() int { return len(r.headers) }

// AffectedRows reports the affected-row count of a non-row-returning statement
func (r *QueryResult) AffectedRows() (int64, bool) { return r.affected, r.hasAffected }

// ExecutionTimeMillis is the wall-clock duration of the execution in milliseconds
func (r *QueryResult) ExecutionTimeMillis() int64 { return r.execTime.Milliseconds() }
