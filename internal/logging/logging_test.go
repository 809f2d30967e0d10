package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("info"))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("dropped")
	logger.Warn("kept", "path", "/tmp/a.png")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "kept", record["msg"])
	require.Equal(t, "/tmp/a.png", record["path"])
}

func TestSink_ConsoleAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	var console bytes.Buffer

	w, closer := Sink(Options{Dir: dir, Console: &console})
	_, err := w.Write([]byte("{\"msg\":\"hello\"}\n"))
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	require.Contains(t, console.String(), "hello")
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.Contains(t, string(data), "hello")
}

func TestSink_Nothing(t *testing.T) {
	w, closer := Sink(Options{})
	_, err := w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, closer.Close())
}
