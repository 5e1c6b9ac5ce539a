package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synapse/types"
)

func TestClassifyImage(t *testing.T) {
	assert.Equal(t, types.SourceHandwritten,
		ClassifyImage("Meeting notes: ship the beta on Friday"))
	assert.Equal(t, types.SourceImage, ClassifyImage("logo"))
	assert.Equal(t, types.SourceImage, ClassifyImage(""))
	assert.Equal(t, types.SourceImage, ClassifyImage("                         "))
}

func TestTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("Project Alpha kickoff notes\n"), 0o644))
	assert.Equal(t, "Project Alpha kickoff notes", TextFile(path))
}

func TestTextFileMissing(t *testing.T) {
	assert.Equal(t, "", TextFile(filepath.Join(t.TempDir(), "absent.txt")))
}

func TestPDFTextUnparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))
	text, pages := PDFText(path)
	assert.Empty(t, text)
	assert.Zero(t, pages)
}
