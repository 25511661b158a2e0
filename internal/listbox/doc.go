// Package listbox implements a keyboard-navigable, accessible option list.
//
// A Model renders its options into a node tree and keeps the tree's ARIA
// state current: the root has the listbox role, is focusable, and names the
// active option through aria-activedescendant. Arrow keys move the active
// option with wraparound, skipping disabled options; Enter selects it.
// Keyboard handling is only bound while the list is armed, which happens
// when it has focus, when its Host reports focus, or when keyboard control
// was requested explicitly.
//
// Scrolling the active option into view is debounced through tea.Tick, so
// a burst of key repeats updates the active option on every key but scrolls
// once.
//
// A list embedded in a combo box receives a *Host. The host then owns
// focus, is told about every active-option change, and is notified when
// navigation reaches the last option so that it can load more.
package listbox
