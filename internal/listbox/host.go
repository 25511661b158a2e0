package listbox

// Host is the optional controller a list is embedded in, usually a combo
// box whose text field keeps focus while the list is navigated. Every field
// is optional. A nil *Host means the list is standalone.
type Host struct {
	// SetActiveID is told the id of the active option ("" for none) after
	// every change, so the host can mirror it in its own
	// aria-activedescendant.
	SetActiveID func(id string)
	// SetListID and ListID share the list's id with the host. When the host
	// has no id yet, the list publishes its generated one exactly once.
	SetListID func(id string)
	ListID    func() string
	// LabelID is the id of the element labelling the list. It replaces the
	// list's own accessible label.
	LabelID string
	// Focused reports whether the host's text field has focus. It arms
	// keyboard navigation the same way list focus does when standalone.
	Focused func() bool
	// OnOptionSelected is called after the owner's OnSelect.
	OnOptionSelected func(value string)
	// OnBoundaryReached is called whenever navigation lands on the last
	// option.
	OnBoundaryReached func()
}

func (h *Host) embedded() bool { return h != nil }

func (h *Host) setActiveID(id string) {
	if h != nil && h.SetActiveID != nil {
		h.SetActiveID(id)
	}
}

func (h *Host) listID() string {
	if h != nil && h.ListID != nil {
		return h.ListID()
	}
	return ""
}

func (h *Host) labelID() string {
	if h == nil {
		return ""
	}
	return h.LabelID
}

func (h *Host) focused() bool {
	return h != nil && h.Focused != nil && h.Focused()
}

func (h *Host) optionSelected(value string) {
	if h != nil && h.OnOptionSelected != nil {
		h.OnOptionSelected(value)
	}
}

func (h *Host) boundaryReached() {
	if h != nil && h.OnBoundaryReached != nil {
		h.OnBoundaryReached()
	}
}

// publishID offers id to the host. The first writer wins: an id the host
// already has is kept.
func (h *Host) publishID(id string) {
	if h == nil || h.SetListID == nil || h.listID() != "" {
		return
	}
	h.SetListID(id)
}
