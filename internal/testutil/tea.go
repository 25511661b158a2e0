package testutil

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// Messages runs cmd the way a program would and returns the messages it
// produced, flattening batches. Commands still running after timeout (cursor
// blinks, long ticks) are abandoned and contribute nothing.
func Messages(cmd tea.Cmd, timeout time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(timeout):
		return nil
	}

	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, Messages(c, timeout)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}
