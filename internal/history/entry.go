package history

import "time"

// Entry status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Entry is one executed statement. Result rows are never stored.
type Entry struct {
	ID           int64
	Connection   string
	Query        string
	ExecutedAt   time.Time
	DurationMs   int64
	RowCount     int
	Status       string
	ErrorMessage string
}

// QueryPreview returns the query truncated to maxLen runes
func (e *Entry) QueryPreview(maxLen int) string {
	q := []rune(e.Query)
	switch {
	case maxLen < 0 || len(q) <= maxLen:
		return e.Query
	case maxLen <= 3:
		return string(q[:maxLen])
	}
	return string(q[:maxLen-3]) + "..."
}
