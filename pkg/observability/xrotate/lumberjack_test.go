package xrotate

import (
	"errors"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLumberjack_Validation(t *testing.T) {
	path := join(t.TempDir(), "diag.log")
	tests := []struct {
		name    string
		file    string
		opts    []Option
		wantErr error
	}{
		{name: "文件名为空", file: "", wantErr: ErrEmptyFilename},
		{name: "大小为 0", file: path, opts: []Option{WithMaxSize(0)}, wantErr: ErrInvalidMaxSize},
		{name: "大小超上限", file: path, opts: []Option{WithMaxSize(maxSizeMB + 1)}, wantErr: ErrInvalidMaxSize},
		{name: "备份数为负", file: path, opts: []Option{WithMaxBackups(-1)}, wantErr: ErrInvalidMaxBackups},
		{name: "天数超上限", file: path, opts: []Option{WithMaxAge(maxAgeDays + 1)}, wantErr: ErrInvalidMaxAge},
		{name: "无清理策略", file: path, opts: []Option{WithMaxBackups(0), WithMaxAge(0)}, wantErr: ErrNoCleanupPolicy},
		{name: "权限非法", file: path, opts: []Option{WithFileMode(os.ModeDir | 0o644)}, wantErr: ErrInvalidFileMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLumberjack(tt.file, tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLumberjack_WriteRotateClose(t *testing.T) {
	dir := t.TempDir()
	path := join(dir, "sub", "diag.log")

	r, err := NewLumberjack(path,
		WithMaxSize(1),
		WithMaxBackups(2),
		WithCompress(false),
		WithLocalTime(true),
		WithFileMode(0o644),
	)
	require.NoError(t, err)

	_, err = r.Write([]byte("hello\n"))
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, r.Rotate())
	assert.Len(t, dirNames(t, join(dir, "sub")), 2, "当前文件 + 一个备份")

	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Close(), ErrClosed)
	_, err = r.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Rotate(), ErrClosed)
}

func TestLumberjack_ChmodErrorReported(t *testing.T) {
	var calls atomic.Int32
	r, err := NewLumberjack(join(t.TempDir(), "diag.log"),
		WithFileMode(0o640),
		WithOnError(func(err error) {
			calls.Add(1)
			panic("callback panic is isolated")
		}),
	)
	require.NoError(t, err)
	defer r.Close()

	lr, ok := r.(*lumberjackRotator)
	require.True(t, ok)
	lr.chmodFn = func(string, os.FileMode) error { return errors.New("chmod denied") }

	_, err = r.Write([]byte("x"))
	require.NoError(t, err, "权限调整失败不影响写入")
	assert.Equal(t, int32(1), calls.Load())
}
