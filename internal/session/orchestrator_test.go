package session

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nhath/ferrumdb/internal/db"
	"github.com/nhath/ferrumdb/internal/history"
)

type recorderFunc func(*history.Entry) error

func (f recorderFunc) Add(e *history.Entry) error { return f(e) }

var successRE = regexp.MustCompile(`^Query executed successfully in \d+ms \(2 rows\)$`)

func usersResult() *db.QueryResult {
	return &db.QueryResult{
		Columns:  []string{"id", "name"},
		Rows:     [][]string{{"1", "alice"}, {"2", "bob"}},
		IsSelect: true,
		RowCount: 2,
	}
}

func TestExecuteNotConnected(t *testing.T) {
	var recorded int
	o := &Orchestrator{Recorder: recorderFunc(func(*history.Entry) error { recorded++; return nil })}
	s := NewState()
	s.SetStatus("previous")

	o.Execute(context.Background(), s, "SELECT 1")

	if s.LastError() != "Not connected to database" {
		t.Errorf("error = %q", s.LastError())
	}
	if s.Status() != "" {
		t.Errorf("status not cleared: %q", s.Status())
	}
	if recorded != 0 {
		t.Errorf("recorded %d entries without a connection", recorded)
	}
}

func TestExecuteSuccess(t *testing.T) {
	exec := &stubExecutor{result: usersResult()}
	s := NewState()
	s.AttachConnection(exec)
	s.SetError("old failure")

	(&Orchestrator{}).Execute(context.Background(), s, "SELECT id, name FROM users")

	if len(exec.calls) != 1 || exec.calls[0] != "SELECT id, name FROM users" {
		t.Fatalf("calls = %v", exec.calls)
	}
	if !successRE.MatchString(s.Status()) {
		t.Errorf("status = %q", s.Status())
	}
	if s.LastError() != "" {
		t.Errorf("error not cleared: %q", s.LastError())
	}
	r := s.Result()
	if r == nil || r.RowCount() != 2 || r.Headers()[1] != "name" || r.Rows()[1][1] != "bob" {
		t.Fatalf("unexpected result %+v", r)
	}
	if _, ok := r.AffectedRows(); ok {
		t.Error("select should not report affected rows")
	}
}

func TestExecuteDMLAffectedRows(t *testing.T) {
	exec := &stubExecutor{result: &db.QueryResult{AffectedRows: 4}}
	s := NewState()
	s.AttachConnection(exec)

	(&Orchestrator{}).Execute(context.Background(), s, "DELETE FROM users")

	n, ok := s.Result().AffectedRows()
	if !ok || n != 4 {
		t.Errorf("AffectedRows = %d, %v", n, ok)
	}
	if !regexp.MustCompile(`\(0 rows\)$`).MatchString(s.Status()) {
		t.Errorf("status = %q", s.Status())
	}
}

func TestExecuteDMLUnknownAffectedRows(t *testing.T) {
	exec := &stubExecutor{result: &db.QueryResult{AffectedUnknown: true}}
	s := NewState()
	s.AttachConnection(exec)

	(&Orchestrator{}).Execute(context.Background(), s, "CREATE TABLE t (a int)")

	if s.Result() == nil {
		t.Fatal("no result set")
	}
	if n, ok := s.Result().AffectedRows(); ok {
		t.Errorf("AffectedRows = %d, want unknown", n)
	}
	if s.LastError() != "" {
		t.Errorf("error = %q", s.LastError())
	}
}

func TestExecuteFailureKeepsPreviousResult(t *testing.T) {
	exec := &stubExecutor{result: usersResult()}
	s := NewState()
	s.AttachConnection(exec)
	o := &Orchestrator{}
	o.Execute(context.Background(), s, "SELECT id, name FROM users")
	prev := s.Result()

	exec.result = nil
	exec.err = &pgconn.PgError{Code: "42601", Message: "syntax error at or near SELECT"}
	o.Execute(context.Background(), s, "SELEC")

	if s.LastError() != "Query error: syntax error at or near SELECT" {
		t.Errorf("error = %q", s.LastError())
	}
	if s.Status() != "" {
		t.Errorf("status not cleared: %q", s.Status())
	}
	if s.Result() != prev {
		t.Error("failed query replaced the previous result")
	}
}

func TestExecuteErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		result *db.QueryResult
		err    error
		want   string
	}{
		{
			name:   "ragged rows",
			result: &db.QueryResult{Columns: []string{"a", "b"}, Rows: [][]string{{"1"}}, IsSelect: true},
			want:   "Result error: row 1 has 1 values for 2 columns",
		},
		{
			name: "nil result",
			want: "Result error: driver returned no result",
		},
		{
			name: "connection lost",
			err:  db.WrapConnectionError(errors.New("connection reset")),
			want: "Connection error: connection reset",
		},
		{
			name: "unknown",
			err:  errors.New("weird"),
			want: "Unknown error: weird",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.AttachConnection(&stubExecutor{result: tt.result, err: tt.err})
			(&Orchestrator{}).Execute(context.Background(), s, "SELECT 1")
			if s.LastError() != tt.want {
				t.Errorf("error = %q, want %q", s.LastError(), tt.want)
			}
			if s.Result() != nil {
				t.Error("failure must not set a result")
			}
		})
	}
}

func TestExecuteRecordsHistory(t *testing.T) {
	var entries []*history.Entry
	o := &Orchestrator{
		Label: "sqlite://app.db",
		Recorder: recorderFunc(func(e *history.Entry) error {
			entries = append(entries, e)
			return errors.New("disk full")
		}),
	}
	exec := &stubExecutor{result: usersResult()}
	s := NewState()
	s.AttachConnection(exec)

	o.Execute(context.Background(), s, "SELECT id, name FROM users")
	exec.err = &pgconn.PgError{Message: "relation \"nope\" does not exist"}
	o.Execute(context.Background(), s, "SELECT * FROM nope")

	if len(entries) != 2 {
		t.Fatalf("recorded %d entries", len(entries))
	}
	if e := entries[0]; e.Status != history.StatusSuccess || e.RowCount != 2 || e.Connection != "sqlite://app.db" {
		t.Errorf("success entry = %+v", e)
	}
	if e := entries[1]; e.Status != history.StatusError || e.ErrorMessage != `Query error: relation "nope" does not exist` {
		t.Errorf("error entry = %+v", e)
	}
	if s.LastError() != `Query error: relation "nope" does not exist` {
		t.Errorf("recorder failure leaked into the session: %q", s.LastError())
	}
}

func TestRunDoesNotTouchState(t *testing.T) {
	out := (&Orchestrator{}).Run(context.Background(), &stubExecutor{result: usersResult()}, "SELECT 1")
	if out.Err != nil || out.Result.RowCount() != 2 || out.Query != "SELECT 1" {
		t.Errorf("outcome = %+v", out)
	}
	out = (&Orchestrator{}).Run(context.Background(), nil, "SELECT 1")
	if !errors.Is(out.Err, ErrNotConnected) {
		t.Errorf("err = %v", out.Err)
	}
	if msg := out.Err.Error(); msg != "not connected to database" {
		t.Errorf("error string = %q, want lower case", msg)
	}
}
