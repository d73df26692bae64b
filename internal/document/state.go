package document

import (
	"path/filepath"
)

// State is a snapshot of the document being edited
type State struct {
	Text     string
	Filename string // empty while the document is untitled
	Changed  bool   // unsaved changes since the last load or save
}

// Status is one of the four states the editor window can be in
type Status int

const (
	UntitledClean Status = iota
	UntitledDirty
	NamedClean
	NamedDirty
)

func (s Status) String() string {
	switch s {
	case UntitledClean:
		return "Untitled-Clean"
	case UntitledDirty:
		return "Untitled-Dirty"
	case NamedClean:
		return "Named-Clean"
	case NamedDirty:
		return "Named-Dirty"
	default:
		return "Unknown"
	}
}

// Status derives the window state from the snapshot
func (s State) Status() Status {
	switch {
	case s.Filename == "" && !s.Changed:
		return UntitledClean
	case s.Filename == "":
		return UntitledDirty
	case !s.Changed:
		return NamedClean
	default:
		return NamedDirty
	}
}

// DisplayName is the file's base name, or "Untitled"
func (s State) DisplayName() string {
	if s.Filename == "" {
		return "Untitled"
	}
	return filepath.Base(s.Filename)
}

// Title formats a window title for state. A leading "*" marks unsaved changes.
func Title(state State, appTitle string) string {
	title := state.DisplayName() + " - " + appTitle
	if state.Changed {
		return "*" + title
	}
	return title
}
