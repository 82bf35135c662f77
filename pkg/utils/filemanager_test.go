package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 15, 14, 30, 45, 0, time.UTC)

func TestGenerateOutputFileName(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		want   string
	}{
		{
			name:   "default format",
			format: "{original}_donusturulmus_{timestamp}.xlsx",
			input:  "/data/siparis.xlsx",
			want:   "siparis_donusturulmus_20240115_1430.xlsx",
		},
		{
			name:   "stem stops at first dot",
			format: "{original}_{date}",
			input:  "siparis.mayis.xlsx",
			want:   "siparis_20240115.xlsx",
		},
		{
			name:   "extension is case-insensitive",
			format: "{original}_{time}.XLSX",
			input:  "a.csv",
			want:   "a_1430.XLSX",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateOutputFileName(tt.format, tt.input, ".xlsx", fixedNow))
		})
	}
}

func TestGenerateOutputFileNameUUID(t *testing.T) {
	name := GenerateOutputFileName("{uuid}", "a.xlsx", ".db", fixedNow)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}\.db$`), name)
}

func TestBatchID(t *testing.T) {
	assert.Equal(t, "siparis", BatchID("/x/siparis.xlsx"))
	assert.Equal(t, "siparis.mayis", BatchID("siparis.mayis.xlsx"))
	assert.Equal(t, "noext", BatchID("noext"))
	assert.Equal(t, ".hidden", BatchID(".hidden"))
}

func TestOriginalStem(t *testing.T) {
	assert.Equal(t, "siparis", OriginalStem("siparis.mayis.xlsx"))
	assert.Equal(t, "noext", OriginalStem("dir/noext"))
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	fm := NewFileManager(filepath.Join(root, "out"), filepath.Join(root, "archive"), false)

	require.NoError(t, fm.EnsureDirectories())
	assert.DirExists(t, fm.OutputDir)
	assert.NoDirExists(t, fm.ArchiveDir)

	fm.ArchiveOnSuccess = true
	require.NoError(t, fm.EnsureDirectories())
	assert.DirExists(t, fm.ArchiveDir)

	assert.Equal(t, filepath.Join(root, "out", "x.xlsx"), fm.OutputPath("x.xlsx"))
}

func TestArchiveInputFile(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "siparis.xlsx")
	require.NoError(t, os.WriteFile(input, []byte("data"), 0o644))

	disabled := NewFileManager(root, filepath.Join(root, "archive"), false)
	path, err := disabled.ArchiveInputFile(input, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, input, path)
	assert.FileExists(t, input)

	fm := NewFileManager(root, filepath.Join(root, "archive"), true)
	fm.UseTimestampSubdirs = true
	path, err = fm.ArchiveInputFile(input, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "archive", "2024", "01", "15", "siparis.xlsx"), path)
	assert.NoFileExists(t, input)
	assert.True(t, FileExists(path))

	size, err := GetFileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4), size)
}
