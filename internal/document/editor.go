package document

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"codeberg.org/snonux/rstedit/internal"
	"codeberg.org/snonux/rstedit/internal/translation"
)

// ErrRevertUnavailable is returned by Revert when the document has no file
// or no unsaved changes
var ErrRevertUnavailable = errors.New("nothing to revert")

// Preview is what the preview pane should show
type Preview struct {
	Rendered bool   // show Output as formatted HTML instead of plain text
	Output   string // last rendered output
}

// Observer is notified synchronously whenever the editor changes
type Observer interface {
	// DocumentReplaced is called when the buffer is replaced wholesale
	// (new document, open, revert, reload). Text changes reported back
	// from inside this call do not mark the document dirty.
	DocumentReplaced(text string)

	// StateChanged is called after any change to the document state
	StateChanged(state State)

	// PreviewChanged is called when the output or preview mode changes
	PreviewChanged(preview Preview)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnReplaced func(text string)
	OnState    func(state State)
	OnPreview  func(preview Preview)
}

func (f ObserverFuncs) DocumentReplaced(text string) {
	if f.OnReplaced != nil {
		f.OnReplaced(text)
	}
}

func (f ObserverFuncs) StateChanged(state State) {
	if f.OnState != nil {
		f.OnState(state)
	}
}

func (f ObserverFuncs) PreviewChanged(preview Preview) {
	if f.OnPreview != nil {
		f.OnPreview(preview)
	}
}

// History records documents the user opened or saved
type History interface {
	Record(path string) error
}

// Options configures an Editor
type Options struct {
	AppTitle        string
	PreviewRendered bool
	AutoReload      bool    // reload clean documents changed on disk
	History         History // may be nil
}

// ExternalChange describes what happened when the file on disk changed
type ExternalChange int

const (
	ExternalUnchanged ExternalChange = iota // content matches what we loaded or saved
	ExternalReloaded                        // clean document reloaded from disk
	ExternalModified                        // disk differs but the buffer was kept
	ExternalRemoved                         // file no longer exists
)

func (c ExternalChange) String() string {
	switch c {
	case ExternalUnchanged:
		return "unchanged"
	case ExternalReloaded:
		return "reloaded"
	case ExternalModified:
		return "modified"
	case ExternalRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Editor is the controller behind the editor window. It owns the document
// state and the translator, and runs entirely on the UI goroutine.
type Editor struct {
	translator *translation.Translator
	history    History
	appTitle   string
	autoReload bool

	state    State
	output   string
	rendered bool

	// digest of the file content as of the last load or save
	disk    internal.Digest
	hasDisk bool

	suppress  int
	observers []Observer
	closed    bool
}

// NewEditor creates an editor on an untitled, empty document
func NewEditor(translator *translation.Translator, opts *Options) *Editor {
	if opts == nil {
		opts = &Options{}
	}
	appTitle := opts.AppTitle
	if appTitle == "" {
		appTitle = internal.AppTitle
	}

	return &Editor{
		translator: translator,
		history:    opts.History,
		appTitle:   appTitle,
		autoReload: opts.AutoReload,
		rendered:   opts.PreviewRendered,
	}
}

// Subscribe registers an observer
func (e *Editor) Subscribe(o Observer) {
	e.observers = append(e.observers, o)
}

// State returns a snapshot of the document state
func (e *Editor) State() State {
	return e.state
}

// Title returns the window title for the current state
func (e *Editor) Title() string {
	return Title(e.state, e.appTitle)
}

// Output returns the most recently rendered output
func (e *Editor) Output() string {
	return e.output
}

// PreviewRendered reports whether the preview shows formatted HTML
func (e *Editor) PreviewRendered() bool {
	return e.rendered
}

// Preview returns what the preview pane should show
func (e *Editor) Preview() Preview {
	return Preview{Rendered: e.rendered, Output: e.output}
}

// Translator returns the translator the editor renders with
func (e *Editor) Translator() *translation.Translator {
	return e.translator
}

// New discards the current document and starts an untitled, empty one
func (e *Editor) New() {
	e.state = State{}
	e.hasDisk = false
	slog.Debug("New document")
	e.replace()
}

// Open loads path into the buffer
func (e *Editor) Open(path string) error {
	text, err := ReadText(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	e.state = State{Text: text, Filename: path}
	e.markDisk(text)
	e.record(path)
	slog.Info("Opened document", "path", path, "bytes", len(text))
	e.replace()
	return nil
}

// TextChanged handles an edit coming from the view
func (e *Editor) TextChanged(text string) {
	if e.closed {
		return
	}

	e.state.Text = text
	if e.suppress == 0 {
		e.state.Changed = true
	}
	e.refresh()
	e.notifyState()
}

// SaveRST writes the buffer to path and makes path the document's file
func (e *Editor) SaveRST(path string) error {
	if err := WriteText(path, e.state.Text); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	e.state.Filename = path
	e.state.Changed = false
	e.markDisk(e.state.Text)
	e.record(path)
	slog.Info("Saved document", "path", path, "bytes", len(e.state.Text))
	e.notifyState()
	return nil
}

// SaveHTML writes the last rendered output to path. The document state is
// not touched.
func (e *Editor) SaveHTML(path string) error {
	if err := WriteText(path, e.output); err != nil {
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	slog.Info("Exported HTML", "path", path, "bytes", len(e.output))
	return nil
}

// CanRevert reports whether Revert would do anything
func (e *Editor) CanRevert() bool {
	return e.state.Filename != "" && e.state.Changed
}

// Revert reloads the document's file, dropping unsaved changes
func (e *Editor) Revert() error {
	if !e.CanRevert() {
		return ErrRevertUnavailable
	}

	text, err := ReadText(e.state.Filename)
	if err != nil {
		return fmt.Errorf("failed to revert %s: %w", e.state.Filename, err)
	}

	e.state.Text = text
	e.state.Changed = false
	e.markDisk(text)
	slog.Info("Reverted document", "path", e.state.Filename)
	e.replace()
	return nil
}

// SetPreviewRendered switches the preview between source and rendered mode
func (e *Editor) SetPreviewRendered(rendered bool) {
	if e.rendered == rendered {
		return
	}
	e.rendered = rendered
	e.notifyPreview()
}

// ExternalChange checks the document's file after a change on disk was
// reported. Changes caused by our own saves are recognised by content.
func (e *Editor) ExternalChange() (ExternalChange, error) {
	if e.state.Filename == "" {
		return ExternalUnchanged, nil
	}

	text, err := ReadText(e.state.Filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ExternalRemoved, nil
		}
		return ExternalUnchanged, fmt.Errorf("failed to check %s: %w", e.state.Filename, err)
	}

	if e.hasDisk && internal.ContentDigest(text) == e.disk {
		return ExternalUnchanged, nil
	}

	if e.state.Changed || !e.autoReload {
		slog.Info("Document changed on disk", "path", e.state.Filename, "unsaved_changes", e.state.Changed)
		return ExternalModified, nil
	}

	e.state.Text = text
	e.markDisk(text)
	slog.Info("Reloaded document changed on disk", "path", e.state.Filename)
	e.replace()
	return ExternalReloaded, nil
}

// Close releases the translator. Later calls do nothing.
func (e *Editor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	stats := e.translator.Stats()
	slog.Debug("Closing editor", "cache_hits", stats.Hits, "cache_misses", stats.Misses, "cache_entries", stats.Entries)
	return e.translator.Close()
}

// replace pushes the whole buffer to observers without dirtying it
func (e *Editor) replace() {
	e.suppress++
	for _, o := range e.observers {
		o.DocumentReplaced(e.state.Text)
	}
	e.suppress--

	e.refresh()
	e.notifyState()
}

func (e *Editor) refresh() {
	e.output = e.translator.Translate(e.state.Text)
	e.notifyPreview()
}

func (e *Editor) markDisk(text string) {
	e.disk = internal.ContentDigest(text)
	e.hasDisk = true
}

func (e *Editor) record(path string) {
	if e.history == nil {
		return
	}
	if err := e.history.Record(path); err != nil {
		slog.Warn("Failed to record document in history", "path", path, "error", err)
	}
}

func (e *Editor) notifyState() {
	for _, o := range e.observers {
		o.StateChanged(e.state)
	}
}

func (e *Editor) notifyPreview() {
	p := e.Preview()
	for _, o := range e.observers {
		o.PreviewChanged(p)
	}
}
