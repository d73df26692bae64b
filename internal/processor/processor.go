package processor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"codeberg.org/snonux/rstedit/internal"
	"codeberg.org/snonux/rstedit/internal/batch"
	"codeberg.org/snonux/rstedit/internal/document"
	"codeberg.org/snonux/rstedit/internal/render"
)

// Processor exports documents to HTML
type Processor struct {
	pub       render.Publisher
	outputDir string // "" writes next to each source
	force     bool   // overwrite existing HTML files
}

// NewProcessor creates a processor rendering with pub
func NewProcessor(pub render.Publisher, outputDir string, force bool) *Processor {
	return &Processor{
		pub:       pub,
		outputDir: outputDir,
		force:     force,
	}
}

// ProcessBatch exports every document listed in batchFile. All entries are
// attempted; the returned error joins the failures.
func (p *Processor) ProcessBatch(batchFile string) (int, error) {
	entries, err := batch.ReadBatchFile(batchFile)
	if err != nil {
		return 0, err
	}
	return p.ProcessEntries(entries)
}

// ProcessFiles exports each source to its default HTML name
func (p *Processor) ProcessFiles(sources []string) (int, error) {
	entries := make([]batch.Entry, 0, len(sources))
	for _, source := range sources {
		entries = append(entries, batch.Entry{Source: source})
	}
	return p.ProcessEntries(entries)
}

// ProcessEntries exports entries and returns how many were written
func (p *Processor) ProcessEntries(entries []batch.Entry) (int, error) {
	if p.outputDir != "" {
		if err := os.MkdirAll(p.outputDir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var errs []error
	exported := 0
	for _, entry := range entries {
		target, err := p.ExportFile(entry.Source, entry.Target)
		if err != nil {
			slog.Error("Export failed", "source", entry.Source, "error", err)
			errs = append(errs, err)
			continue
		}
		slog.Info("Exported document", "source", entry.Source, "target", target)
		exported++
	}

	return exported, errors.Join(errs...)
}

// ExportFile renders source and writes the HTML to target, or to the
// default target when it is empty. A fatal diagnostic is an error here;
// nothing is written for it.
func (p *Processor) ExportFile(source, target string) (string, error) {
	if target == "" {
		target = p.TargetFor(source)
	}

	if !p.force {
		if _, err := os.Stat(target); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}
	}

	text, err := document.ReadText(source)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source, err)
	}

	html, err := p.pub.Publish(text)
	if err != nil {
		var fatal *render.FatalError
		if errors.As(err, &fatal) {
			return "", fmt.Errorf("%s: %w", source, fatal)
		}
		return "", fmt.Errorf("failed to render %s: %w", source, err)
	}

	if dir := filepath.Dir(target); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := document.WriteText(target, html); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}

// TargetFor returns the default HTML path for source
func (p *Processor) TargetFor(source string) string {
	name := internal.HTMLFileName(source)
	if p.outputDir != "" {
		return filepath.Join(p.outputDir, name)
	}
	return filepath.Join(filepath.Dir(source), name)
}
