package session

// Mode is the modal input state. The zero value is Navigation.
type Mode int

const (
	Navigation Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "EDITING"
	}
	return "NAVIGATION"
}

// toggled returns the other mode
func (m Mode) toggled() Mode {
	if m == Navigation {
		return Editing
	}
	return Navigation
}
