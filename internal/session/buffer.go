package session

// EditBuffer is a single-line text buffer with a cursor.
// The cursor is a rune offset and always satisfies 0 <= cursor <= Len().
type EditBuffer struct {
	content []rune
	cursor  int
}

// String returns the buffer content
func (b *EditBuffer) String() string { return string(b.content) }

// Cursor returns the cursor offset in runes
func (b *EditBuffer) Cursor() int { return b.cursor }

// Len returns the content length in runes
func (b *EditBuffer) Len() int { return len(b.content) }

// InsertChar inserts r at the cursor and advances the cursor past it
func (b *EditBuffer) InsertChar(r rune) {
	b.content = append(b.content, 0)
	copy(b.content[b.cursor+1:], b.content[b.cursor:])
	b.content[b.cursor] = r
	b.cursor++
}

// DeleteBackward removes the rune before the cursor
func (b *EditBuffer) DeleteBackward() {
	if b.cursor == 0 {
		return
	}
	b.cursor--
	b.content = append(b.content[:b.cursor], b.content[b.cursor+1:]...)
}

// DeleteForward removes the rune under the cursor, leaving the cursor where it is.
// At the end of the buffer it does nothing.
func (b *EditBuffer) DeleteForward() {
	if b.cursor >= len(b.content) {
		return
	}
	b.MoveRight()
	b.DeleteBackward()
}

func (b *EditBuffer) MoveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
}

func (b *EditBuffer) MoveRight() {
	if b.cursor < len(b.content) {
		b.cursor++
	}
}

func (b *EditBuffer) MoveToStart() { b.cursor = 0 }

func (b *EditBuffer) MoveToEnd() { b.cursor = len(b.content) }

// Clear empties the buffer and resets the cursor
func (b *EditBuffer) Clear() {
	b.content = nil
	b.cursor = 0
}

// TakeAndClear returns the content and leaves the buffer empty
func (b *EditBuffer) TakeAndClear() string {
	s := string(b.content)
	b.Clear()
	return s
}
