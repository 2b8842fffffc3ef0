// Package session is the modal query session: edit buffer, mode, session
// state and the orchestration of submitted queries.
package session

import (
	"context"
	"errors"

	"github.com/nhath/ferrumdb/internal/db"
)

// Executor is the query capability of a live database session.
// db.Driver satisfies it.
type Executor interface {
	Execute(ctx context.Context, query string) (*db.QueryResult, error)
}

// ErrAlreadyConnected is returned when a second connection is attached
var ErrAlreadyConnected = errors.New("session already has a connection")

// State aggregates everything the session tracks between key presses.
// It is owned by a single event loop; rendering reads it through Snapshot.
type State struct {
	input    EditBuffer
	mode     Mode
	conn     Executor
	database string
	schema   string
	result   *QueryResult
	status   string
	lastErr  string
}

// NewState returns an empty, disconnected session in Navigation mode
func NewState() *State {
	return &State{}
}

// Input gives the controller access to the edit buffer
func (s *State) Input() *EditBuffer { return &s.input }

func (s *State) Mode() Mode { return s.mode }

// ToggleMode flips between Navigation and Editing. The buffer is untouched.
func (s *State) ToggleMode() { s.mode = s.mode.toggled() }

// AttachConnection sets the session's connection. It can only happen once.
func (s *State) AttachConnection(conn Executor) error {
	if conn == nil {
		return errors.New("nil connection")
	}
	if s.conn != nil {
		return ErrAlreadyConnected
	}
	s.conn = conn
	return nil
}

// Conn returns the connection, or nil when the session is disconnected
func (s *State) Conn() Executor { return s.conn }

func (s *State) Connected() bool { return s.conn != nil }

func (s *State) SetDatabase(name string) { s.database = name }

func (s *State) SetSchema(name string) { s.schema = name }

func (s *State) Database() string { return s.database }

func (s *State) Schema() string { return s.schema }

// Result returns the last successful result, or nil
func (s *State) Result() *QueryResult { return s.result }

// SetResult replaces the last result wholesale
func (s *State) SetResult(r *QueryResult) { s.result = r }

func (s *State) ClearResult() { s.result = nil }

// SetStatus shows an informational message and clears any error
func (s *State) SetStatus(msg string) {
	s.status = msg
	s.lastErr = ""
}

// SetError shows an error message and clears any status
func (s *State) SetError(msg string) {
	s.lastErr = msg
	s.status = ""
}

func (s *State) Status() string { return s.status }

func (s *State) LastError() string { return s.lastErr }

// Snapshot is a read-only copy of State for rendering
type Snapshot struct {
	Mode      Mode
	Input     string
	Cursor    int
	Connected bool
	Database  string
	Schema    string
	Result    *QueryResult
	Status    string
	Error     string
}

// Snapshot copies the renderable parts of the state
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Mode:      s.mode,
		Input:     s.input.String(),
		Cursor:    s.input.Cursor(),
		Connected: s.conn != nil,
		Database:  s.database,
		Schema:    s.schema,
		Result:    s.result,
		Status:    s.status,
		Error:     s.lastErr,
	}
}
