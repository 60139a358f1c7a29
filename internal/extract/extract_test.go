package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadFileToText_txt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	err := os.WriteFile(path, []byte("Looking for a Python backend engineer, 3+ years"), 0o644)
	assert.NoError(t, err)

	text, err := ReadFileToText(path)

	assert.NoError(t, err)
	assert.Equal(t, "Looking for a Python backend engineer, 3+ years", text)
}

func TestReadFileToText_missingFile(t *testing.T) {
	_, err := ReadFileToText(filepath.Join(t.TempDir(), "nope.txt"))

	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestReadFileToText_unsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.png")
	err := os.WriteFile(path, []byte{0x89, 0x50}, 0o644)
	assert.NoError(t, err)

	_, err = ReadFileToText(path)

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadFileToText_legacyDoc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.doc")
	err := os.WriteFile(path, []byte("old word file"), 0o644)
	assert.NoError(t, err)

	_, err = ReadFileToText(path)

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
