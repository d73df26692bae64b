package gui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/rstedit/internal"
	"codeberg.org/snonux/rstedit/internal/document"
	"codeberg.org/snonux/rstedit/internal/history"
	"codeberg.org/snonux/rstedit/internal/watch"
)

// recentMenuSize is how many documents File > Open Recent lists
const recentMenuSize = 10

// RecentDocuments is the recent files list shown in the File menu
type RecentDocuments interface {
	List(limit int) ([]history.Entry, error)
	Remove(path string) error
}

// Config holds GUI application configuration
type Config struct {
	App        fyne.App        // nil creates the desktop application
	Recent     RecentDocuments // nil hides the recent files list
	WatchFiles bool            // follow changes made to the document by other programs
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	source           *SourceEntry
	preview          *widget.RichText
	previewScroll    *container.Scroll
	logViewer        *LogViewer
	statusLabel      *widget.Label
	cacheStatusLabel *widget.Label

	// Toolbar buttons
	newBtn     *ttwidget.Button
	openBtn    *ttwidget.Button
	saveBtn    *ttwidget.Button
	exportBtn  *ttwidget.Button
	revertBtn  *ttwidget.Button
	previewBtn *ttwidget.Button

	// Menu
	mainMenu    *fyne.MainMenu
	recentItem  *fyne.MenuItem
	revertItem  *fyne.MenuItem
	previewItem *fyne.MenuItem

	shortcuts map[string]func()

	editor  *document.Editor
	recent  RecentDocuments
	watcher *watch.Watcher
	closed  bool
}

// New creates the editor window around editor
func New(editor *document.Editor, config *Config) *Application {
	if config == nil {
		config = &Config{}
	}

	fyneApp := config.App
	if fyneApp == nil {
		fyneApp = app.NewWithID("org.codeberg.snonux.rstedit")
		fyneApp.SetIcon(GetAppIcon())
	}

	a := &Application{
		app:       fyneApp,
		editor:    editor,
		recent:    config.Recent,
		shortcuts: make(map[string]func()),
	}

	if config.WatchFiles {
		w, err := watch.New(a.onFileChanged, watch.DefaultDebounce)
		if err != nil {
			slog.Warn("Changes made by other programs will not be detected", "error", err)
		} else {
			a.watcher = w
		}
	}

	a.setupUI()
	editor.Subscribe(a)

	// Bring the widgets in line with whatever the editor holds already
	a.StateChanged(editor.State())
	a.PreviewChanged(editor.Preview())
	a.refreshRecent()

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(a.editor.Title())
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(1100, 750))

	// Source editor on the left
	a.source = NewSourceEntry()
	a.source.SetText(a.editor.State().Text)
	a.source.OnChanged = func(text string) {
		a.editor.TextChanged(text)
	}
	a.source.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})
	a.source.SetOnShortcut(a.runShortcut)

	// Preview on the right
	a.preview = widget.NewRichText()
	a.previewScroll = container.NewScroll(a.preview)

	editorSection := container.NewHSplit(a.source, a.previewScroll)
	editorSection.SetOffset(0.5) // Equal 50/50 split

	a.logViewer = NewLogViewer()
	mainSection := container.NewVSplit(editorSection, a.logViewer)
	mainSection.SetOffset(0.8)

	// Toolbar (tooltips are set once the tooltip layer exists)
	a.newBtn = ttwidget.NewButtonWithIcon("", theme.DocumentCreateIcon(), a.onNew)
	a.openBtn = ttwidget.NewButtonWithIcon("", theme.FolderOpenIcon(), a.onOpen)
	a.saveBtn = ttwidget.NewButtonWithIcon("", theme.DocumentSaveIcon(), a.onSave)
	a.exportBtn = ttwidget.NewButtonWithIcon("", theme.UploadIcon(), a.onExportHTML)
	a.revertBtn = ttwidget.NewButtonWithIcon("", theme.ContentUndoIcon(), a.onRevert)
	a.previewBtn = ttwidget.NewButtonWithIcon("", theme.VisibilityIcon(), a.onTogglePreview)
	helpButton := ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	toolbar := container.NewHBox(
		a.newBtn,
		a.openBtn,
		a.saveBtn,
		widget.NewSeparator(),
		a.exportBtn,
		a.revertBtn,
		widget.NewSeparator(),
		a.previewBtn,
		helpButton,
	)

	// Status section
	a.statusLabel = widget.NewLabel("Ready")
	a.cacheStatusLabel = widget.NewLabel("")
	a.cacheStatusLabel.TextStyle = fyne.TextStyle{Italic: true}

	statusSection := container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, nil, a.cacheStatusLabel, a.statusLabel),
	)

	content := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		statusSection,
		nil, nil,
		mainSection,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()
	helpButton.SetToolTip("Keyboard shortcuts")

	a.setupMenu()
	a.setupKeyboardShortcuts()

	a.window.SetCloseIntercept(func() {
		a.confirmDiscard("Quit", a.window.Close)
	})
	a.window.SetOnClosed(a.shutdown)
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.newBtn.SetToolTip("New document (Ctrl+N)")
	a.openBtn.SetToolTip("Open reStructuredText (Ctrl+O)")
	a.saveBtn.SetToolTip("Save reStructuredText (Ctrl+S)")
	a.exportBtn.SetToolTip("Export HTML (Ctrl+E)")
	a.revertBtn.SetToolTip("Revert to saved (Ctrl+R)")
	a.previewBtn.SetToolTip("Toggle rendered preview (Ctrl+P)")
}

func (a *Application) setupMenu() {
	a.recentItem = fyne.NewMenuItem("Open Recent", nil)
	a.recentItem.ChildMenu = fyne.NewMenu("")

	a.revertItem = fyne.NewMenuItem("Revert", a.onRevert)
	a.previewItem = fyne.NewMenuItem("Rendered Preview", a.onTogglePreview)

	file := fyne.NewMenu("File",
		fyne.NewMenuItem("New", a.onNew),
		fyne.NewMenuItem("Open...", a.onOpen),
		a.recentItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", a.onSave),
		fyne.NewMenuItem("Save As...", a.onSaveAs),
		fyne.NewMenuItem("Export HTML...", a.onExportHTML),
		fyne.NewMenuItemSeparator(),
		a.revertItem,
	)
	view := fyne.NewMenu("View", a.previewItem)
	help := fyne.NewMenu("Help",
		fyne.NewMenuItem("Keyboard Shortcuts", a.onShowHotkeys),
		fyne.NewMenuItem("About", a.onShowAbout),
	)

	a.mainMenu = fyne.NewMainMenu(file, view, help)
	a.window.SetMainMenu(a.mainMenu)
}

// setupKeyboardShortcuts registers the Ctrl shortcuts on the window. The
// source entry offers every shortcut to runShortcut first since a focused
// entry swallows them otherwise.
func (a *Application) setupKeyboardShortcuts() {
	bindings := []struct {
		key    fyne.KeyName
		mod    fyne.KeyModifier
		action func()
	}{
		{fyne.KeyN, fyne.KeyModifierShortcutDefault, a.onNew},
		{fyne.KeyO, fyne.KeyModifierShortcutDefault, a.onOpen},
		{fyne.KeyS, fyne.KeyModifierShortcutDefault, a.onSave},
		{fyne.KeyS, fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift, a.onSaveAs},
		{fyne.KeyE, fyne.KeyModifierShortcutDefault, a.onExportHTML},
		{fyne.KeyR, fyne.KeyModifierShortcutDefault, a.onRevert},
		{fyne.KeyP, fyne.KeyModifierShortcutDefault, a.onTogglePreview},
	}

	for _, b := range bindings {
		shortcut := &desktop.CustomShortcut{KeyName: b.key, Modifier: b.mod}
		action := b.action
		a.shortcuts[shortcut.ShortcutName()] = action
		a.window.Canvas().AddShortcut(shortcut, func(fyne.Shortcut) { action() })
	}
}

// runShortcut runs the action bound to s and reports whether there was one
func (a *Application) runShortcut(s fyne.Shortcut) bool {
	action, ok := a.shortcuts[s.ShortcutName()]
	if ok {
		action()
	}
	return ok
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.Canvas().Focus(a.source)
	a.window.ShowAndRun()
}

// LogWriter returns the writer feeding the log panel
func (a *Application) LogWriter() io.Writer {
	return a.logViewer
}

// DocumentReplaced implements document.Observer
func (a *Application) DocumentReplaced(text string) {
	a.source.SetText(text)
}

// StateChanged implements document.Observer
func (a *Application) StateChanged(state document.State) {
	a.window.SetTitle(a.editor.Title())

	if a.editor.CanRevert() {
		a.revertBtn.Enable()
		a.revertItem.Disabled = false
	} else {
		a.revertBtn.Disable()
		a.revertItem.Disabled = true
	}
	a.mainMenu.Refresh()

	if a.watcher != nil && !a.closed {
		if err := a.watcher.Watch(state.Filename); err != nil {
			slog.Warn("Failed to watch document", "path", state.Filename, "error", err)
		}
	}
}

// PreviewChanged implements document.Observer
func (a *Application) PreviewChanged(preview document.Preview) {
	if preview.Rendered {
		a.preview.Segments = HTMLSegments(preview.Output)
		a.preview.Wrapping = fyne.TextWrapWord
		a.previewBtn.SetIcon(theme.VisibilityIcon())
	} else {
		a.preview.Segments = SourceSegments(preview.Output)
		a.preview.Wrapping = fyne.TextWrapOff
		a.previewBtn.SetIcon(theme.VisibilityOffIcon())
	}
	a.preview.Refresh()

	if a.previewItem.Checked != preview.Rendered {
		a.previewItem.Checked = preview.Rendered
		a.mainMenu.Refresh()
	}

	stats := a.editor.Translator().Stats()
	a.cacheStatusLabel.SetText(fmt.Sprintf("%s, cache: %d hits, %d misses",
		a.editor.Translator().Publisher().Name(), stats.Hits, stats.Misses))
}

func (a *Application) onNew() {
	a.confirmDiscard("New Document", func() {
		a.editor.New()
		a.updateStatus("New document")
	})
}

func (a *Application) onOpen() {
	a.confirmDiscard("Open Document", func() {
		fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				a.showError(err)
				return
			}
			if reader == nil {
				return
			}
			path := reader.URI().Path()
			reader.Close()
			a.openFile(path)
		}, a.window)

		fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".rst", ".rest", ".txt"}))
		a.setDialogLocation(fileDialog)
		fileDialog.Resize(fyne.NewSize(800, 600))
		fileDialog.Show()
	})
}

// openFile loads path into the editor. A file that no longer exists is
// dropped from the recent list.
func (a *Application) openFile(path string) {
	if err := a.editor.Open(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && a.recent != nil {
			if rmErr := a.recent.Remove(path); rmErr != nil {
				slog.Warn("Failed to remove missing document from history", "path", path, "error", rmErr)
			}
			a.refreshRecent()
		}
		a.showError(err)
		return
	}

	a.updateStatus("Opened " + path)
	a.refreshRecent()
}

func (a *Application) onSave() {
	if filename := a.editor.State().Filename; filename != "" {
		a.saveTo(filename)
		return
	}
	a.onSaveAs()
}

func (a *Application) onSaveAs() {
	name := "untitled.rst"
	if filename := a.editor.State().Filename; filename != "" {
		name = filepath.Base(filename)
	}

	a.showSaveDialog(name, []string{".rst", ".rest", ".txt"}, a.saveTo)
}

func (a *Application) saveTo(path string) {
	if err := a.editor.SaveRST(path); err != nil {
		a.showError(err)
		return
	}

	a.updateStatus("Saved " + path)
	a.refreshRecent()
}

func (a *Application) onExportHTML() {
	name := internal.HTMLFileName(a.editor.State().Filename)
	a.showSaveDialog(name, []string{".html", ".htm"}, a.exportTo)
}

func (a *Application) exportTo(path string) {
	if err := a.editor.SaveHTML(path); err != nil {
		a.showError(err)
		return
	}
	a.updateStatus("Exported HTML to " + path)
}

func (a *Application) onRevert() {
	if !a.editor.CanRevert() {
		return
	}

	state := a.editor.State()
	dialog.ShowConfirm("Revert",
		fmt.Sprintf("Discard all changes to %s since it was last saved?", state.DisplayName()),
		func(ok bool) {
			if ok {
				a.revert()
			}
		}, a.window)
}

func (a *Application) revert() {
	if err := a.editor.Revert(); err != nil {
		a.showError(err)
		return
	}
	a.updateStatus("Reverted " + a.editor.State().Filename)
}

func (a *Application) onTogglePreview() {
	a.editor.SetPreviewRendered(!a.editor.PreviewRendered())
}

// confirmDiscard runs action straight away when there is nothing to lose,
// otherwise only after the user agreed to drop the unsaved changes
func (a *Application) confirmDiscard(title string, action func()) {
	state := a.editor.State()
	if !state.Changed {
		action()
		return
	}

	dialog.ShowConfirm(title,
		fmt.Sprintf("%s has unsaved changes. Discard them?", state.DisplayName()),
		func(ok bool) {
			if ok {
				action()
			}
		}, a.window)
}

func (a *Application) showSaveDialog(name string, extensions []string, save func(path string)) {
	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.showError(err)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		save(path)
	}, a.window)

	fileDialog.SetFileName(name)
	fileDialog.SetFilter(storage.NewExtensionFileFilter(extensions))
	a.setDialogLocation(fileDialog)
	fileDialog.Resize(fyne.NewSize(800, 600))
	fileDialog.Show()
}

// setDialogLocation starts file dialogs in the current document's directory
func (a *Application) setDialogLocation(fileDialog *dialog.FileDialog) {
	filename := a.editor.State().Filename
	if filename == "" {
		return
	}

	uri := storage.NewFileURI(filepath.Dir(filename))
	if lister, err := storage.ListerForURI(uri); err == nil {
		fileDialog.SetLocation(lister)
	}
}

// refreshRecent rebuilds File > Open Recent from the history store
func (a *Application) refreshRecent() {
	if a.recent == nil {
		a.recentItem.Disabled = true
		a.mainMenu.Refresh()
		return
	}

	entries, err := a.recent.List(recentMenuSize)
	if err != nil {
		slog.Warn("Failed to load recent documents", "error", err)
	}

	items := make([]*fyne.MenuItem, 0, len(entries))
	for _, entry := range entries {
		path := entry.Path
		items = append(items, fyne.NewMenuItem(path, func() {
			a.confirmDiscard("Open Document", func() { a.openFile(path) })
		}))
	}
	if len(items) == 0 {
		empty := fyne.NewMenuItem("No recent documents", nil)
		empty.Disabled = true
		items = append(items, empty)
	}

	a.recentItem.ChildMenu.Items = items
	a.recentItem.Disabled = false
	a.mainMenu.Refresh()
}

// onFileChanged is called by the watcher from its own goroutine
func (a *Application) onFileChanged(path string) {
	fyne.Do(func() {
		a.checkExternalChange(path)
	})
}

func (a *Application) checkExternalChange(path string) {
	if a.closed || path == "" {
		return
	}

	change, err := a.editor.ExternalChange()
	if err != nil {
		slog.Warn("Failed to check document on disk", "path", path, "error", err)
		return
	}

	name := filepath.Base(path)
	switch change {
	case document.ExternalReloaded:
		a.updateStatus("Reloaded " + name + " after it changed on disk")
	case document.ExternalModified:
		a.updateStatus(name + " changed on disk; saving will overwrite it")
	case document.ExternalRemoved:
		a.updateStatus(name + " was removed from disk")
	}
}

func (a *Application) onShowHotkeys() {
	hotkeys := `## File
**Ctrl+N** New document
**Ctrl+O** Open
**Ctrl+S** Save
**Ctrl+Shift+S** Save as
**Ctrl+E** Export HTML
**Ctrl+R** Revert

## View
**Ctrl+P** Toggle rendered preview
**Esc** Leave the editor
`
	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	d := dialog.NewCustom("Keyboard Shortcuts", "Close", container.NewScroll(content), a.window)
	d.Resize(fyne.NewSize(400, 420))
	d.Show()
}

func (a *Application) onShowAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("%s v%s\nreStructuredText editor with live HTML preview\nRenderer: %s",
			internal.AppTitle, internal.Version, a.editor.Translator().Publisher().Name()),
		a.window)
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showError(err error) {
	slog.Error("Operation failed", "error", err)
	dialog.ShowError(err, a.window)
	a.updateStatus("Error: " + err.Error())
}

// shutdown stops the watcher and closes the editor, once
func (a *Application) shutdown() {
	if a.closed {
		return
	}
	a.closed = true

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			slog.Debug("Failed to close document watcher", "error", err)
		}
	}
	if err := a.editor.Close(); err != nil {
		slog.Warn("Failed to close renderer", "error", err)
	}
}
