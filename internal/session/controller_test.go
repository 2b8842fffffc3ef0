package session

import (
	"context"
	"testing"
)

func connectedController(exec *stubExecutor) *Controller {
	c := NewController(nil, nil)
	c.State.AttachConnection(exec)
	return c
}

func press(c *Controller, evs ...KeyEvent) bool {
	quit := false
	for _, ev := range evs {
		quit = c.HandleKey(context.Background(), ev) || quit
	}
	return quit
}

func typeKeys(s string) []KeyEvent {
	var evs []KeyEvent
	for _, r := range s {
		evs = append(evs, runeKey(r))
	}
	return evs
}

func TestControllerSubmitReturnsToNavigation(t *testing.T) {
	exec := &stubExecutor{result: usersResult()}
	c := connectedController(exec)

	press(c, runeKey('i'))
	press(c, typeKeys("SELECT 1")...)
	press(c, KeyEvent{Key: KeyEnter})

	if c.State.Mode() != Navigation {
		t.Errorf("mode = %v, want Navigation", c.State.Mode())
	}
	if len(exec.calls) != 1 || exec.calls[0] != "SELECT 1" {
		t.Errorf("calls = %v", exec.calls)
	}
	if c.State.Input().Len() != 0 {
		t.Errorf("buffer not cleared")
	}
	if !successRE.MatchString(c.State.Status()) {
		t.Errorf("status = %q", c.State.Status())
	}
}

func TestControllerCtrlEnterKeepsEditing(t *testing.T) {
	exec := &stubExecutor{result: usersResult()}
	c := connectedController(exec)

	press(c, runeKey('i'))
	press(c, typeKeys("SELECT 1")...)
	press(c, KeyEvent{Key: KeyEnter, Mods: ModControl})

	snap := c.State.Snapshot()
	if snap.Mode != Editing || snap.Input != "" || snap.Cursor != 0 {
		t.Errorf("snapshot = %+v", snap)
	}

	// the next keystrokes go straight into the empty buffer
	press(c, typeKeys("qi")...)
	if c.State.Input().String() != "qi" {
		t.Errorf("buffer = %q", c.State.Input().String())
	}
}

func TestControllerQuit(t *testing.T) {
	c := NewController(nil, nil)
	if press(c, runeKey('x')) {
		t.Fatal("x should not quit")
	}
	if !press(c, runeKey('q')) {
		t.Fatal("q should quit in navigation")
	}

	c = NewController(nil, nil)
	if press(c, runeKey('i'), runeKey('q')) {
		t.Fatal("q should be text in editing")
	}
	if !press(c, KeyEvent{Key: KeyEsc}, ctrlKey('c')) {
		t.Fatal("ctrl+c should quit in navigation")
	}
}

func TestControllerDisconnectedSubmit(t *testing.T) {
	c := NewController(nil, nil)
	press(c, runeKey('i'))
	press(c, typeKeys("SELECT 1")...)
	press(c, KeyEvent{Key: KeyEnter})

	if c.State.LastError() != "Not connected to database" {
		t.Errorf("error = %q", c.State.LastError())
	}
	if c.State.Mode() != Navigation {
		t.Errorf("mode = %v", c.State.Mode())
	}
}
