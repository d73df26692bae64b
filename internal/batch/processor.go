package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one document to export
type Entry struct {
	Source string
	// Target is the HTML file to write; empty derives it from Source
	Target string
}

// ReadBatchFile reads the documents to export from a list file.
// Supports formats:
// - Source only: "notes.rst" (HTML name derived from the source)
// - With target: "notes.rst = public/notes.html"
// Blank lines and lines starting with '#' are ignored. Relative paths are
// resolved against the directory of the list file.
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	base := filepath.Dir(filename)
	var entries []Entry

	for i, line := range splitLines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		source, target, _ := strings.Cut(line, "=")
		source = strings.TrimSpace(source)
		target = strings.TrimSpace(target)
		if source == "" {
			return nil, fmt.Errorf("%s:%d: missing source document", filename, i+1)
		}

		entries = append(entries, Entry{
			Source: resolve(base, source),
			Target: resolve(base, target),
		})
	}

	return entries, nil
}

// splitLines splits a string by newlines, dropping carriage returns
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
