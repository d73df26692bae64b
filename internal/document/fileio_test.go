package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/rstedit/internal/testutil"
)

func TestReadWriteRoundTrip(t *testing.T) {
	texts := []string{
		"",
		"Title\n=====\n\nBody with *emphasis*.\n",
		"no trailing newline",
		"Заглавие\n========\n\nТекст.\n",
		"tabs\tand\r\nCRLF\r\n",
	}

	dir := t.TempDir()
	for i, text := range texts {
		path := filepath.Join(dir, "doc"+string(rune('a'+i))+".rst")
		require.NoError(t, WriteText(path, text))

		testutil.AssertFileContent(t, path, []byte(text))

		got, err := ReadText(path)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestReadTextStripsBOM(t *testing.T) {
	path := testutil.CreateTestDocument(t, "bom.rst", "\xef\xbb\xbfTitle\n=====\n")

	got, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "Title\n=====\n", got)
}

func TestReadTextReplacesInvalidUTF8(t *testing.T) {
	path := testutil.CreateTestDocument(t, "bad.rst", "a\xffb")

	got, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "a�b", got)
}

func TestReadTextMissingFile(t *testing.T) {
	_, err := ReadText(filepath.Join(t.TempDir(), "missing.rst"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteTextInvalidPath(t *testing.T) {
	err := WriteText(filepath.Join(t.TempDir(), "no", "such", "dir", "doc.rst"), "text")
	assert.Error(t, err)
}
