package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "history.db"), opts)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreAddList(t *testing.T) {
	s := openStore(t, Options{})
	base := time.Now().Add(-time.Minute)

	for i := 0; i < 3; i++ {
		e := &Entry{
			Connection: "postgres://localhost/app",
			Query:      fmt.Sprintf("SELECT %d", i),
			ExecutedAt: base.Add(time.Duration(i) * time.Second),
			DurationMs: int64(i),
			RowCount:   1,
			Status:     StatusSuccess,
		}
		if err := s.Add(e); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if e.ID == 0 {
			t.Fatalf("expected ID to be set")
		}
	}
	if err := s.Add(&Entry{
		Connection:   "sqlite://other.db",
		Query:        "SELEC",
		ExecutedAt:   base,
		Status:       StatusError,
		ErrorMessage: "Query error: syntax error",
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, err := s.List("postgres://localhost/app", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Query != "SELECT 2" || entries[2].Query != "SELECT 0" {
		t.Errorf("entries not newest first: %q .. %q", entries[0].Query, entries[2].Query)
	}

	page, err := s.List("postgres://localhost/app", 1, 1)
	if err != nil {
		t.Fatalf("List page: %v", err)
	}
	if len(page) != 1 || page[0].Query != "SELECT 1" {
		t.Errorf("unexpected page %+v", page)
	}

	other, err := s.List("sqlite://other.db", 10, 0)
	if err != nil {
		t.Fatalf("List other: %v", err)
	}
	if len(other) != 1 || other[0].Status != StatusError || other[0].ErrorMessage != "Query error: syntax error" {
		t.Errorf("unexpected error entry %+v", other)
	}
}

func TestStoreLimit(t *testing.T) {
	s := openStore(t, Options{Limit: 2})
	now := time.Now()
	for i := 0; i < 5; i++ {
		if err := s.Add(&Entry{
			Connection: "c",
			Query:      fmt.Sprintf("q%d", i),
			ExecutedAt: now.Add(time.Duration(i) * time.Second),
			Status:     StatusSuccess,
		}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	n, err := s.Count("c")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
	entries, _ := s.List("c", 10, 0)
	if entries[0].Query != "q4" || entries[1].Query != "q3" {
		t.Errorf("limit kept the wrong entries: %+v", entries)
	}
}

func TestStoreRetention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewStore(path, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s.Add(&Entry{Connection: "c", Query: "old", ExecutedAt: time.Now().AddDate(0, 0, -30), Status: StatusSuccess})
	s.Add(&Entry{Connection: "c", Query: "new", ExecutedAt: time.Now(), Status: StatusSuccess})
	s.Close()

	s, err = NewStore(path, Options{RetentionDays: 7})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	entries, err := s.List("c", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Query != "new" {
		t.Errorf("retention kept %+v", entries)
	}
}

func TestQueryPreview(t *testing.T) {
	tests := []struct {
		query  string
		maxLen int
		want   string
	}{
		{"SELECT 1", 20, "SELECT 1"},
		{"SELECT * FROM users", 10, "SELECT ..."},
		{"SELECT 'äöü'", 9, "SELECT..."},
		{"abcdef", 2, "ab"},
		{"abc", -1, "abc"},
	}
	for _, tt := range tests {
		e := &Entry{Query: tt.query}
		if got := e.QueryPreview(tt.maxLen); got != tt.want {
			t.Errorf("QueryPreview(%q, %d) = %q, want %q", tt.query, tt.maxLen, got, tt.want)
		}
	}
}
