package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level Level, mode Mode) (*Logger, *bytes.Buffer) {
	t.Helper()
	log, err := New(Config{Level: level, Mode: mode})
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	return log, buf
}

func TestLevelFiltering(t *testing.T) {
	log, buf := newBufferLogger(t, WARN, MINIMAL)

	log.Info("hidden")
	log.Warn("shown %d", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[WARN] shown 1")
}

func TestWithPrefixesComponent(t *testing.T) {
	log, buf := newBufferLogger(t, DEBUG, MINIMAL)

	log.With("client").With("mock").Debug("GET %s", "simulator/status")

	assert.Equal(t, "[DEBUG] [client.mock] GET simulator/status\n", buf.String())
}

func TestChildSharesLevel(t *testing.T) {
	log, buf := newBufferLogger(t, DEBUG, MINIMAL)
	child := log.With("refresh")

	log.SetLevel(ERROR)
	child.Warn("dropped")

	assert.Empty(t, buf.String())
}

func TestFatalUsesExitHook(t *testing.T) {
	log, buf := newBufferLogger(t, INFO, NORMAL)
	code := -1
	log.out.exit = func(c int) { code = c }

	log.Fatal("boom")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "boom")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dashboard.log")
	log, err := New(Config{Level: INFO, Mode: FULL, LogFilePath: path})
	require.NoError(t, err)
	log.SetOutput(nil)

	log.Info("written to file")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, "[INFO] logger_test.go:")
	assert.Contains(t, line, "written to file")
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Fatal("never exits")
	log.With("x").Error("silent")
}

func TestParse(t *testing.T) {
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, INFO, ParseLevel("bogus"))
	assert.Equal(t, FULL, ParseMode("FULL"))
	assert.Equal(t, NORMAL, ParseMode(""))
}
