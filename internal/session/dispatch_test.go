package session

import "testing"

func runeKey(r rune) KeyEvent { return KeyEvent{Key: KeyRune, Rune: r} }

func ctrlKey(r rune) KeyEvent { return KeyEvent{Key: KeyRune, Rune: r, Mods: ModControl} }

func TestDispatchNavigation(t *testing.T) {
	tests := []struct {
		name       string
		ev         KeyEvent
		wantKind   CommandKind
		wantMode   Mode
		wantResult bool
		wantStatus string
	}{
		{"q quits", runeKey('q'), CommandQuit, Navigation, true, ""},
		{"ctrl+c quits", ctrlKey('c'), CommandQuit, Navigation, true, ""},
		{"i enters editing", runeKey('i'), CommandNone, Editing, true, ""},
		{"r clears results", runeKey('r'), CommandNone, Navigation, false, "Results cleared"},
		{"plain c ignored", runeKey('c'), CommandNone, Navigation, true, ""},
		{"other rune ignored", runeKey('x'), CommandNone, Navigation, true, ""},
		{"enter ignored", KeyEvent{Key: KeyEnter}, CommandNone, Navigation, true, ""},
		{"esc ignored", KeyEvent{Key: KeyEsc}, CommandNone, Navigation, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			r, _ := NewQueryResult([]string{"id"}, [][]string{{"1"}}, nil, 0)
			s.SetResult(r)

			cmd := Dispatch(s, tt.ev)
			if cmd.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", cmd.Kind, tt.wantKind)
			}
			if s.Mode() != tt.wantMode {
				t.Errorf("mode = %v, want %v", s.Mode(), tt.wantMode)
			}
			if (s.Result() != nil) != tt.wantResult {
				t.Errorf("result present = %v, want %v", s.Result() != nil, tt.wantResult)
			}
			if s.Status() != tt.wantStatus {
				t.Errorf("status = %q, want %q", s.Status(), tt.wantStatus)
			}
		})
	}
}

func TestDispatchNavigationIgnoresTyping(t *testing.T) {
	s := NewState()
	Dispatch(s, runeKey('x'))
	Dispatch(s, KeyEvent{Key: KeyBackspace})
	if s.Input().Len() != 0 {
		t.Errorf("buffer edited in navigation: %q", s.Input().String())
	}
}

func TestDispatchEditing(t *testing.T) {
	tests := []struct {
		name       string
		keys       []KeyEvent
		wantText   string
		wantCursor int
		wantMode   Mode
	}{
		{"typing", []KeyEvent{runeKey('a'), runeKey('b')}, "ab", 2, Editing},
		{"q and i are text", []KeyEvent{runeKey('q'), runeKey('i'), runeKey('r')}, "qir", 3, Editing},
		{"backspace", []KeyEvent{runeKey('a'), runeKey('b'), {Key: KeyBackspace}}, "a", 1, Editing},
		{"left then delete", []KeyEvent{runeKey('a'), runeKey('b'), {Key: KeyLeft}, {Key: KeyDelete}}, "a", 1, Editing},
		{"home inserts at start", []KeyEvent{runeKey('b'), {Key: KeyHome}, runeKey('a')}, "ab", 1, Editing},
		{"ctrl+a ctrl+e", []KeyEvent{runeKey('a'), runeKey('b'), ctrlKey('a'), {Key: KeyRight}, ctrlKey('e')}, "ab", 2, Editing},
		{"end", []KeyEvent{runeKey('a'), {Key: KeyLeft}, {Key: KeyEnd}}, "a", 1, Editing},
		{"other ctrl rune inserts", []KeyEvent{runeKey('a'), ctrlKey('k')}, "ak", 2, Editing},
		{"ctrl+x ctrl+c are text", []KeyEvent{ctrlKey('x'), ctrlKey('c')}, "xc", 2, Editing},
		{"ctrl+alt+a inserts", []KeyEvent{{Key: KeyRune, Rune: 'a', Mods: ModControl | ModAlt}, runeKey('b'), ctrlKey('a'), runeKey('c')}, "cab", 1, Editing},
		{"alt rune inserts", []KeyEvent{{Key: KeyRune, Rune: 'x', Mods: ModAlt}}, "x", 1, Editing},
		{"esc keeps buffer", []KeyEvent{runeKey('a'), {Key: KeyEsc}}, "a", 1, Navigation},
		{"unknown ignored", []KeyEvent{runeKey('a'), {Key: KeyUnknown}}, "a", 1, Editing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.ToggleMode()
			for _, ev := range tt.keys {
				if cmd := Dispatch(s, ev); cmd.Kind != CommandNone {
					t.Fatalf("unexpected command %+v for %+v", cmd, ev)
				}
			}
			if s.Input().String() != tt.wantText || s.Input().Cursor() != tt.wantCursor {
				t.Errorf("buffer = (%q, %d), want (%q, %d)", s.Input().String(), s.Input().Cursor(), tt.wantText, tt.wantCursor)
			}
			if s.Mode() != tt.wantMode {
				t.Errorf("mode = %v, want %v", s.Mode(), tt.wantMode)
			}
		})
	}
}

func TestDispatchEditingSubmit(t *testing.T) {
	tests := []struct {
		name     string
		mods     Modifiers
		wantKeep bool
	}{
		{"enter", ModNone, false},
		{"ctrl+enter", ModControl, true},
		{"alt+enter", ModAlt, true},
		{"ctrl+alt+enter", ModControl | ModAlt, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.ToggleMode()
			typeString(s.Input(), "SELECT 1")

			cmd := Dispatch(s, KeyEvent{Key: KeyEnter, Mods: tt.mods})
			if cmd.Kind != CommandSubmit || cmd.Query != "SELECT 1" {
				t.Fatalf("cmd = %+v", cmd)
			}
			if cmd.KeepEditing != tt.wantKeep {
				t.Errorf("KeepEditing = %v, want %v", cmd.KeepEditing, tt.wantKeep)
			}
			if s.Input().Len() != 0 || s.Input().Cursor() != 0 {
				t.Errorf("buffer not cleared: %q", s.Input().String())
			}
			if s.Mode() != Editing {
				t.Errorf("dispatch must not change mode on submit")
			}
		})
	}
}

func TestDispatchEmptySubmit(t *testing.T) {
	s := NewState()
	s.ToggleMode()
	cmd := Dispatch(s, KeyEvent{Key: KeyEnter})
	if cmd.Kind != CommandSubmit || cmd.Query != "" {
		t.Errorf("empty submit = %+v", cmd)
	}
}
