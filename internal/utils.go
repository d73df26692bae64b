package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// Digest is a fixed-width content hash of a document's UTF-8 bytes
type Digest [sha256.Size]byte

// ContentDigest hashes the UTF-8 encoding of text
func ContentDigest(text string) Digest {
	return sha256.Sum256([]byte(text))
}

// String returns the hex form of the digest
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 8 hex characters, enough for log lines
func (d Digest) Short() string {
	return d.String()[:8]
}

// HTMLFileName suggests an export filename for a document.
// "notes.rst" becomes "notes.html"; an empty name becomes "untitled.html".
func HTMLFileName(documentPath string) string {
	base := filepath.Base(documentPath)
	if documentPath == "" || base == "." || base == string(filepath.Separator) {
		return "untitled.html"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return SanitizeFilename(base) + ".html"
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isFilenameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isFilenameRune reports whether r can appear unchanged in an exported filename
func isFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_' || r == '.':
		return true
	case r > 127 && r != 0xFEFF:
		// letters outside ASCII are left alone
		return true
	}
	return false
}
