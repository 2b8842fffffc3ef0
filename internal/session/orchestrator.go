package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nhath/ferrumdb/internal/db"
	"github.com/nhath/ferrumdb/internal/history"
)

// ErrNotConnected is reported when a query is submitted without a connection
var ErrNotConnected = errors.New("not connected to database")

// notConnectedMessage is what the error line shows for ErrNotConnected
const notConnectedMessage = "Not connected to database"

// Recorder receives one entry per executed statement. *history.Store implements it.
type Recorder interface {
	Add(entry *history.Entry) error
}

// Outcome is the result of running one query, before it is applied to a State
type Outcome struct {
	Query   string
	Result  *QueryResult
	Err     error
	Elapsed time.Duration
}

// Orchestrator turns a submitted query into a result or an error on the session
type Orchestrator struct {
	// Recorder is optional; when set every attempted execution is logged to it
	Recorder Recorder
	// Label identifies the connection in recorded history
	Label string
}

// Execute runs query on the session's connection and applies the outcome.
// It never returns an error: every failure ends up in the session's error line.
func (o *Orchestrator) Execute(ctx context.Context, s *State, query string) {
	o.Apply(s, o.Run(ctx, s.Conn(), query))
}

// Run executes query on conn without touching any session state
func (o *Orchestrator) Run(ctx context.Context, conn Executor, query string) Outcome {
	if conn == nil {
		return Outcome{Query: query, Err: ErrNotConnected}
	}

	start := time.Now()
	raw, err := conn.Execute(ctx, query)
	elapsed := time.Since(start)

	out := Outcome{Query: query, Elapsed: elapsed}
	switch {
	case err != nil:
		out.Err = err
	case raw == nil:
		out.Err = db.WrapResultError(errors.New("driver returned no result"))
	default:
		var affected *int64
		if !raw.IsSelect && !raw.AffectedUnknown {
			n := raw.AffectedRows
			affected = &n
		}
		out.Result, out.Err = NewQueryResult(raw.Columns, raw.Rows, affected, elapsed)
	}

	if out.Err != nil {
		log.Printf("query failed after %s: %v", elapsed, out.Err)
	}
	o.record(out)
	return out
}

// Apply writes an outcome into the session. A failure leaves the previous
// result in place so the user keeps context while retrying.
func (o *Orchestrator) Apply(s *State, out Outcome) {
	if errors.Is(out.Err, ErrNotConnected) {
		s.SetError(notConnectedMessage)
		return
	}
	if out.Err != nil {
		s.SetError(db.Classify(out.Err).Error())
		return
	}
	s.SetResult(out.Result)
	s.SetStatus(successMessage(out.Result))
}

func successMessage(r *QueryResult) string {
	return fmt.Sprintf("Query executed successfully in %dms (%d rows)", r.ExecutionTimeMillis(), r.RowCount())
}

func (o *Orchestrator) record(out Outcome) {
	if o.Recorder == nil {
		return
	}
	entry := &history.Entry{
		Connection: o.Label,
		Query:      out.Query,
		ExecutedAt: time.Now(),
		DurationMs: out.Elapsed.Milliseconds(),
		Status:     history.StatusSuccess,
	}
	if out.Err != nil {
		entry.Status = history.StatusError
		entry.ErrorMessage = db.Classify(out.Err).Error()
	} else {
		entry.RowCount = out.Result.RowCount()
	}
	if err := o.Recorder.Add(entry); err != nil {
		log.Printf("history: %v", err)
	}
}
