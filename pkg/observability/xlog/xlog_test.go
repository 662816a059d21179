package xlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/omeyang/xlogroll/pkg/observability/xrotate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: " INFO ", want: LevelInfo},
		{in: "warning", want: LevelWarn},
		{in: "Error", want: LevelError},
		{in: "trace", want: LevelInfo, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_Text(t *testing.T) {
	b, err := LevelWarn.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warn", string(b))
	assert.Equal(t, "INFO+2", Level(2).String())

	var l Level
	require.NoError(t, l.UnmarshalText([]byte("debug")))
	assert.Equal(t, LevelDebug, l)
	assert.Error(t, l.UnmarshalText([]byte("loud")))
}

func TestBuilder_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := New().
		SetOutput(&buf).
		SetFormat("JSON").
		SetLevelString("debug").
		SetComponent("xlogroll").
		Build()
	require.NoError(t, err)
	defer cleanup()

	logger.Debug("archived",
		Path("/var/log/app.log.1.gz"),
		Count(2),
		Err(errors.New("boom")),
		Err(nil),
		Operation("archive"),
		Duration(time.Second))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "xlogroll", rec[KeyComponent])
	assert.Equal(t, "/var/log/app.log.1.gz", rec[KeyPath])
	assert.EqualValues(t, 2, rec[KeyCount])
	assert.Equal(t, "boom", rec[KeyError])
	assert.Equal(t, "1s", rec[KeyDuration])
}

func TestBuilder_DynamicLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New().SetOutput(&buf).SetLevel(LevelWarn).Build()
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.SetLevel(LevelInfo)
	assert.Equal(t, LevelInfo, logger.Level())
	logger.With("k", "v").Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	_, _, err := New().SetFormat("xml").SetLevelString("nope").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, _, err = New().SetLevelString("nope").Build()
	assert.ErrorContains(t, err, "unknown level")

	_, _, err = New().SetRotation("").Build()
	assert.ErrorIs(t, err, xrotate.ErrEmptyFilename)
}

func TestBuilder_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "xlogroll.log")
	logger, cleanup, err := New().SetRotation(path, xrotate.WithMaxSize(1)).Build()
	require.NoError(t, err)

	logger.Info("to file")
	require.NoError(t, cleanup())
	require.NoError(t, cleanup(), "cleanup 幂等")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestBuilder_OnError(t *testing.T) {
	var got []error
	logger, _, err := New().
		SetOutput(failingWriter{}).
		SetOnError(func(err error) { got = append(got, err) }).
		Build()
	require.NoError(t, err)

	logger.Info("lost")
	logger.WithGroup("g").With("a", 1).Info("lost again")
	require.Len(t, got, 2)
	assert.ErrorContains(t, got[0], "disk full")
}
