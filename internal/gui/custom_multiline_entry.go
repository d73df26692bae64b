package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// SourceEntry is the markup editing area: a monospace multi-line entry
// that hands Escape and application shortcuts to the window instead of
// consuming them
type SourceEntry struct {
	widget.Entry
	onEscape   func()
	onShortcut func(fyne.Shortcut) bool
}

// NewSourceEntry creates a new source entry
func NewSourceEntry() *SourceEntry {
	entry := &SourceEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapOff
	entry.TextStyle = fyne.TextStyle{Monospace: true}
	entry.SetPlaceHolder("Type reStructuredText here...")
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *SourceEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *SourceEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

// TypedShortcut offers the shortcut to the application before the entry
func (e *SourceEntry) TypedShortcut(s fyne.Shortcut) {
	if e.onShortcut != nil && e.onShortcut(s) {
		return
	}
	e.Entry.TypedShortcut(s)
}

// SetOnShortcut sets the callback offered every shortcut; it returns true
// when it handled the shortcut
func (e *SourceEntry) SetOnShortcut(f func(fyne.Shortcut) bool) {
	e.onShortcut = f
}
