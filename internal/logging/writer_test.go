package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeeWriter_Write(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	primary := &bytes.Buffer{}

	tw, err := NewTeeWriter(primary, logPath)
	require.NoError(t, err)

	n, err := tw.Write([]byte("typed len_example_001.py\n"))
	require.NoError(t, err)
	assert.Equal(t, 25, n)
	require.NoError(t, tw.Close())

	assert.Equal(t, "typed len_example_001.py\n", primary.String())
	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "typed len_example_001.py\n", string(content))
}

func TestTeeWriter_Truncates(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(logPath, []byte("stale\n"), 0644))

	tw, err := NewTeeWriter(nil, logPath)
	require.NoError(t, err)
	_, err = tw.Write([]byte("fresh\n"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(content))
}

func TestTeeWriterAppend(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(logPath, []byte("first\n"), 0644))

	tw, err := NewTeeWriterAppend(nil, logPath)
	require.NoError(t, err)
	_, err = tw.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, tw.Sync())
	require.NoError(t, tw.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(content))
}

func TestTeeWriter_LogPath(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")

	tw, err := NewTeeWriter(nil, logPath)
	require.NoError(t, err)
	assert.Equal(t, logPath, tw.LogPath())

	require.NoError(t, tw.Close())
	assert.Empty(t, tw.LogPath())
	assert.NoError(t, tw.Close(), "double close is safe")
}

func TestTeeWriter_BadPath(t *testing.T) {
	_, err := NewTeeWriter(nil, filepath.Join(t.TempDir(), "missing", "run.log"))
	assert.Error(t, err)
}

func TestRunWriters(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	rw, err := NewRunWriters(stdout, stderr, logPath)
	require.NoError(t, err)

	_, err = rw.Stdout.Write([]byte("status\n"))
	require.NoError(t, err)
	_, err = rw.Stderr.Write([]byte("INFO wrote file\n"))
	require.NoError(t, err)
	require.NoError(t, rw.Sync())
	require.NoError(t, rw.Close())

	assert.Equal(t, "status\n", stdout.String())
	assert.Equal(t, "INFO wrote file\n", stderr.String())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "status\nINFO wrote file\n", string(content))
}

func TestRunWriters_ConcurrentLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")

	rw, err := NewRunWriters(nil, nil, logPath)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, w := range []*TeeWriter{rw.Stdout, rw.Stderr} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_, _ = w.Write([]byte("0123456789\n"))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, rw.Close())

	lines, err := readAllLines(logPath)
	require.NoError(t, err)
	require.Len(t, lines, 200)
	for _, line := range lines {
		assert.Equal(t, "0123456789", line)
	}
}
