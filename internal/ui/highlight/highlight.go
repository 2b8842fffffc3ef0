// Package highlight renders SQL with chroma token colours as lipgloss-styled text.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter colours single-line SQL and can draw a cursor cell into it
type Highlighter struct {
	lexer       chroma.Lexer
	style       *chroma.Style
	cache       map[chroma.TokenType]lipgloss.Style
	CursorStyle lipgloss.Style
}

// New returns a highlighter using the named chroma style. Unknown names fall
// back to chroma's default style.
func New(styleName string) *Highlighter {
	lexer := lexers.Get("sql")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return &Highlighter{
		lexer:       chroma.Coalesce(lexer),
		style:       styles.Get(styleName),
		cache:       make(map[chroma.TokenType]lipgloss.Style),
		CursorStyle: lipgloss.NewStyle().Reverse(true),
	}
}

// SQL highlights a whole statement without a cursor
func SQL(sql string) string {
	return New("nord").Render(sql, -1)
}

type span struct {
	text  []rune
	style lipgloss.Style
}

func (h *Highlighter) tokenStyle(tt chroma.TokenType) lipgloss.Style {
	if s, ok := h.cache[tt]; ok {
		return s
	}
	entry := h.style.Get(tt)
	s := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		s = s.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	h.cache[tt] = s
	return s
}

// spans splits text into styled runs whose concatenation is exactly text.
// If the lexer output does not line up with the input, text is returned unstyled.
func (h *Highlighter) spans(text string) []span {
	plain := []span{{text: []rune(text)}}
	if strings.ContainsRune(text, '\n') {
		return plain
	}

	it, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		return plain
	}

	var out []span
	var total strings.Builder
	for tok := it(); tok != chroma.EOF; tok = it() {
		// the lexer may append a trailing newline
		v := strings.ReplaceAll(tok.Value, "\n", "")
		if v == "" {
			continue
		}
		total.WriteString(v)
		out = append(out, span{text: []rune(v), style: h.tokenStyle(tok.Type)})
	}
	if total.String() != text {
		return plain
	}
	return out
}

// Render highlights text and draws the cursor over the rune at offset cursor.
// A cursor at the end of the text is drawn as a blank cell; a negative
// cursor is not drawn.
func (h *Highlighter) Render(text string, cursor int) string {
	var b strings.Builder
	pos := 0
	for _, sp := range h.spans(text) {
		if cursor < pos || cursor >= pos+len(sp.text) {
			b.WriteString(sp.style.Render(string(sp.text)))
			pos += len(sp.text)
			continue
		}
		i := cursor - pos
		if i > 0 {
			b.WriteString(sp.style.Render(string(sp.text[:i])))
		}
		b.WriteString(h.CursorStyle.Render(string(sp.text[i])))
		if i+1 < len(sp.text) {
			b.WriteString(sp.style.Render(string(sp.text[i+1:])))
		}
		pos += len(sp.text)
	}
	if cursor >= 0 && cursor >= pos {
		b.WriteString(h.CursorStyle.Render(" "))
	}
	return b.String()
}
