package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "orig.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))
	f, err := os.Open(src)
	require.NoError(t, err)
	defer f.Close()

	name, path, err := fs.Save(f, "orig.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, name), path)
	assert.Equal(t, "/uploads/"+name, fs.RelPath(name))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, fs.Remove(name))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestGeneratedNamesKeepExtension(t *testing.T) {
	namePattern := regexp.MustCompile(`^\d+-\d+\.pdf$`)
	name := generateName("Quarterly Report.PDF")
	assert.True(t, namePattern.MatchString(name), name)

	// Names must differ across calls even for the same input.
	assert.NotEqual(t, generateName("a.txt"), generateName("a.txt"))
}

func TestNewFileStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewFileStore(dir)
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
