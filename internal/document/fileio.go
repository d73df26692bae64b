package document

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadText reads a UTF-8 text file. A byte order mark is dropped and
// ill-formed sequences are replaced with U+FFFD.
func ReadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r := transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return string(data), nil
}

// WriteText writes text to path as UTF-8, replacing any existing file
func WriteText(path, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(f, text); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
