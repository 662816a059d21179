package xfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
	}{
		{name: "创建单层目录", filename: filepath.Join(tmpDir, "newdir", "app.log")},
		{name: "创建多层目录", filename: filepath.Join(tmpDir, "a", "b", "c", "app.log")},
		{name: "目录已存在", filename: filepath.Join(tmpDir, "app.log")},
		{name: "当前目录文件", filename: "app.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, EnsureDir(tt.filename))

			dir := filepath.Dir(tt.filename)
			if dir == "." {
				return
			}
			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestEnsureDirWithPerm_Invalid(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirWithPerm("", DefaultDirPerm)
	assert.ErrorIs(t, err, ErrEmptyPath)

	err = EnsureDirWithPerm(filepath.Join(tmpDir, "x\x00", "a.log"), DefaultDirPerm)
	assert.ErrorIs(t, err, ErrNullByte)

	err = EnsureDirWithPerm(filepath.Join(tmpDir, "noexec", "a.log"), 0600)
	assert.ErrorIs(t, err, ErrInvalidPerm)
}

func TestIsRegularFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "app.log.1")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	ok, err := IsRegularFile(file)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsRegularFile(tmpDir)
	require.NoError(t, err)
	assert.False(t, ok, "目录不是普通文件")

	ok, err = IsRegularFile(filepath.Join(tmpDir, "missing"))
	assert.False(t, ok)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
