package session

// Key identifies the key of a KeyEvent
type Key int

const (
	KeyUnknown Key = iota
	KeyRune
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

// Modifiers is a set of held modifier keys
type Modifiers uint8

const (
	ModControl Modifiers = 1 << iota
	ModAlt

	ModNone Modifiers = 0
)

// Has reports whether every modifier in m is held
func (mods Modifiers) Has(m Modifiers) bool { return mods&m == m }

// KeyEvent is one discrete key press. Rune is only meaningful for KeyRune.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods Modifiers
}

// CommandKind tells the caller what Dispatch needs it to do next
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandQuit
	CommandSubmit
)

// Command is returned by Dispatch for effects it cannot perform itself
type Command struct {
	Kind  CommandKind
	Query string
	// KeepEditing is set for Ctrl+Enter or Alt+Enter alone: the mode stays
	// Editing after the query runs. Any other modifier mix is a plain Enter.
	KeepEditing bool
}

// Dispatch applies one key event to s. Buffer, mode and result changes happen
// here; quitting and running a submitted query are left to the caller.
func Dispatch(s *State, ev KeyEvent) Command {
	switch s.Mode() {
	case Navigation:
		return dispatchNavigation(s, ev)
	case Editing:
		return dispatchEditing(s, ev)
	}
	return Command{}
}

func dispatchNavigation(s *State, ev KeyEvent) Command {
	if ev.Key != KeyRune {
		return Command{}
	}
	switch {
	case ev.Rune == 'q':
		return Command{Kind: CommandQuit}
	case ev.Rune == 'i':
		s.ToggleMode()
	case ev.Rune == 'c' && ev.Mods.Has(ModControl):
		return Command{Kind: CommandQuit}
	case ev.Rune == 'r':
		s.ClearResult()
		s.SetStatus("Results cleared")
	}
	return Command{}
}

func dispatchEditing(s *State, ev KeyEvent) Command {
	in := s.Input()
	switch ev.Key {
	case KeyEsc:
		s.ToggleMode()
	case KeyEnter:
		return Command{
			Kind:        CommandSubmit,
			Query:       in.TakeAndClear(),
			KeepEditing: ev.Mods == ModControl || ev.Mods == ModAlt,
		}
	case KeyRune:
		// ctrl+a and ctrl+e move the cursor; any other rune is text whatever the modifiers
		switch {
		case ev.Mods == ModControl && ev.Rune == 'a':
			in.MoveToStart()
		case ev.Mods == ModControl && ev.Rune == 'e':
			in.MoveToEnd()
		default:
			in.InsertChar(ev.Rune)
		}
	case KeyBackspace:
		in.DeleteBackward()
	case KeyDelete:
		in.DeleteForward()
	case KeyLeft:
		in.MoveLeft()
	case KeyRight:
		in.MoveRight()
	case KeyHome:
		in.MoveToStart()
	case KeyEnd:
		in.MoveToEnd()
	}
	return Command{}
}
