package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"xlogroll"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "xlogroll.yaml")
	writeFile(t, path, body)
	return path
}

func TestArchiveCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log.2026-10-16")
	writeFile(t, src, "line 1\nline 2\n")

	res := runCLI(t, "", "archive", src)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, src+".gz", strings.TrimSpace(res.stdout))
	assert.NoFileExists(t, src)

	f, err := os.Open(src + ".gz")
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "line 1\nline 2\n", string(data))
}

func TestArchiveCommand_Zip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log.1")
	writeFile(t, src, "x")

	res := runCLI(t, "", "archive", "--format", "zip", src)
	require.Equal(t, 0, res.code, res.stderr)
	assert.FileExists(t, src+".zip")
	assert.NoFileExists(t, src)
}

func TestArchiveCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "缺少文件参数", args: []string{"archive"}, code: 2},
		{name: "未知格式", args: []string{"archive", "--format", "rar", "f"}, code: 2},
		{name: "压缩级别越界", args: []string{"archive", "--level", "42", "f"}, code: 2},
		{name: "未知 flag", args: []string{"archive", "--bogus", "f"}, code: 2},
		{name: "源文件不存在", args: []string{"archive", filepath.Join(dir, "missing")}, code: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			assert.Equal(t, tt.code, res.code, res.stderr)
		})
	}
}

func TestPruneCommand(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "app.log")
	writeFile(t, base, "")
	for _, s := range []string{".1.gz", ".2.gz", ".3.gz"} {
		writeFile(t, base+s, s)
	}

	res := runCLI(t, "", "prune", "--max-backups", "2", base)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "deleted 1\n", res.stdout)
	assert.NoFileExists(t, base+".1.gz")
	assert.FileExists(t, base+".2.gz")
	assert.FileExists(t, base+".3.gz")
	assert.FileExists(t, base)

	res = runCLI(t, "", "prune", base)
	assert.Equal(t, 2, res.code)

	res = runCLI(t, "", "prune", "-n", "1")
	assert.Equal(t, 2, res.code)
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "file: "+filepath.Join(dir, "app.log")+"\narchive:\n  format: zip\n")

	res := runCLI(t, "", "config", "-c", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "format: zip")
	assert.Contains(t, res.stdout, "maxBackups: 0")
	assert.Contains(t, res.stdout, "flushInterval: 1s")

	bad := writeConfig(t, t.TempDir(), "archive:\n  format: zip\n")
	res = runCLI(t, "", "config", "-c", bad)
	assert.Equal(t, 2, res.code)

	res = runCLI(t, "", "config", "-c", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, 1, res.code)

	res = runCLI(t, "", "config")
	assert.Equal(t, 2, res.code)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "app.log")
	path := writeConfig(t, dir, "file: "+logFile+"\nautoflush: false\nflushInterval: 10ms\n")

	res := runCLI(t, "first\nsecond\nno newline", "run", "--tee", "-c", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "first\nsecond\nno newline", res.stdout)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\nno newline", string(data))
	assert.Contains(t, res.stderr, "xlogroll started")
	assert.Contains(t, res.stderr, "xlogroll stopped")
}

func TestRunCommand_RollsStaleFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "app.log")
	writeFile(t, logFile, "yesterday\n")
	old := time.Now().AddDate(0, 0, -2)
	require.NoError(t, os.Chtimes(logFile, old, old))

	path := writeConfig(t, dir, "file: "+logFile+"\nretention:\n  maxBackups: 1\n")
	res := runCLI(t, "today\n", "run", "-c", path)
	require.Equal(t, 0, res.code, res.stderr)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, "today\n", string(data))

	archived := logFile + old.Format(".2006-01-02") + ".gz"
	assert.FileExists(t, archived)
	assert.NoFileExists(t, logFile+old.Format(".2006-01-02"))
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "file: "+filepath.Join(dir, "app.log")+"\npool:\n  workers: 0\n")
	res := runCLI(t, "", "run", "-c", path)
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "参数错误")
}

func TestPump(t *testing.T) {
	var out, echo bytes.Buffer
	err := pump(strings.NewReader("a\nb\n"), &out, &echo)(context.Background())
	assert.ErrorIs(t, err, errInputClosed)
	assert.Equal(t, "a\nb\n", out.String())
	assert.Equal(t, "a\nb\n", echo.String())

	err = pump(failingReader{}, &out, nil)(context.Background())
	assert.ErrorContains(t, err, "read input")

	err = pump(strings.NewReader("x\n"), failingWriter{}, nil)(context.Background())
	assert.ErrorContains(t, err, "write log")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestIsCLIUsageError(t *testing.T) {
	assert.True(t, isCLIUsageError(errors.New(`Required flag "config" not set`)))
	assert.True(t, isCLIUsageError(errors.New("flag provided but not defined: -x")))
	assert.False(t, isCLIUsageError(errors.New("permission denied")))
}
