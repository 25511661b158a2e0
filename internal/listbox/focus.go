package listbox

// focusMode decides whether keyboard navigation is armed.
//
// Standalone lists arm on their own focus and disarm on blur. Lists with a
// host never look at their own focus events; the host's Focused flag stands
// in for them. An explicit keyboard-control request arms the list for good.
type focusMode struct {
	explicit bool
	focused  bool
	host     *Host
}

func (f *focusMode) armed() bool {
	if f.explicit {
		return true
	}
	if f.host.embedded() {
		return f.host.focused()
	}
	return f.focused
}

// focus handles the list's own focus event. It reports whether the event
// was accepted.
func (f *focusMode) focus() bool {
	if f.host.embedded() {
		return false
	}
	f.focused = true
	return true
}

// blur handles the list's own blur event. It reports whether the event was
// accepted, in which case the active option must be cleared.
func (f *focusMode) blur() bool {
	if f.host.embedded() {
		return false
	}
	f.focused = false
	return true
}
