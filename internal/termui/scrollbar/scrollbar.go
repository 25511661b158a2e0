// Package scrollbar renders a vertical scrollbar for a scrollable node.
package scrollbar

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/joeycumines/listbox/internal/termui/node"
)

// Model holds the appearance of a scrollbar. Geometry is supplied per render.
type Model struct {
	// ThumbStyle is the style applied to the scrollbar thumb.
	ThumbStyle lipgloss.Style
	// TrackStyle is the style applied to the track behind the thumb.
	TrackStyle lipgloss.Style
	// ThumbChar is the character used to render the thumb.
	ThumbChar string
	// TrackChar is the character used to render the track.
	TrackChar string
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a scrollbar with default styles.
func New(opts ...Option) Model {
	m := Model{
		ThumbChar:  "┃",
		TrackChar:  "│",
		ThumbStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("57")),
		TrackStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithStyles sets the styles for the thumb and track.
func WithStyles(thumb, track lipgloss.Style) Option {
	return func(m *Model) {
		m.ThumbStyle = thumb
		m.TrackStyle = track
	}
}

// WithChars sets the characters for the thumb and track.
func WithChars(thumb, track string) Option {
	return func(m *Model) {
		m.ThumbChar = thumb
		m.TrackChar = track
	}
}

// Thumb returns the first row and the height of the thumb for content of
// the given height shown through vp. Inputs are clamped; content that fits
// yields a full-height thumb.
func Thumb(contentHeight int, vp node.Viewport) (top, size int) {
	height := vp.Height
	if height <= 0 {
		return 0, 0
	}
	if contentHeight <= height {
		return 0, height
	}

	maxOffset := contentHeight - height
	offset := min(max(vp.YOffset, 0), maxOffset)

	// size ~= height^2 / contentHeight, never below one row
	size = min(max(height*height/contentHeight, 1), height)

	maxTop := height - size
	if maxTop > 0 {
		top = offset * maxTop / maxOffset
	}
	return min(max(top, 0), maxTop), size
}

// View renders the scrollbar as exactly vp.Height rows, or "" when the
// viewport has no height.
func (m Model) View(contentHeight int, vp node.Viewport) string {
	top, size := Thumb(contentHeight, vp)
	if size == 0 {
		return ""
	}

	var s strings.Builder
	for i := 0; i < vp.Height; i++ {
		if i > 0 {
			s.WriteByte('\n')
		}
		if top <= i && i < top+size {
			s.WriteString(m.ThumbStyle.Render(m.ThumbChar))
		} else {
			s.WriteString(m.TrackStyle.Render(m.TrackChar))
		}
	}
	return s.String()
}
