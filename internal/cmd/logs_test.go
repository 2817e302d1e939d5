package cmd

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/codeweaver/internal/logging"
	"github.com/jmgilman/codeweaver/internal/names"
)

func writeRunLog(t *testing.T, pm *logging.PathManager, run, content string) {
	t.Helper()
	path, err := pm.EnsureRunLog(run)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveLogRun(t *testing.T) {
	pm := logging.NewPathManager(t.TempDir())

	_, err := resolveLogRun(pm, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run logs found")

	writeRunLog(t, pm, "alpha", "one\n")

	run, err := resolveLogRun(pm, nil)
	require.NoError(t, err)
	assert.Equal(t, "alpha", run)

	run, err = resolveLogRun(pm, []string{"beta"})
	require.NoError(t, err)
	assert.Equal(t, "beta", run)
	for _, bad := range []string{"../alpha", "alpha.pane"} {
		_, err = resolveLogRun(pm, []string{bad})
		assert.ErrorIs(t, err, names.ErrInvalidRunName, bad)
	}
}

func TestOutputLogs(t *testing.T) {
	pm := logging.NewPathManager(t.TempDir())
	writeRunLog(t, pm, "alpha", "one\ntwo\nthree\n")
	reader := logging.NewReader(pm)

	t.Run("last n", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, outputLogs(context.Background(), &buf, reader, "alpha", false, 2, false))
		assert.Equal(t, "two\nthree\n", buf.String())
	})

	t.Run("full", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, outputLogs(context.Background(), &buf, reader, "alpha", false, 1, true))
		assert.Equal(t, "one\ntwo\nthree\n", buf.String())
	})

	t.Run("missing log", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, outputLogs(context.Background(), &buf, reader, "nope", false, 10, false))
	})

	t.Run("follow stops cleanly when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var buf bytes.Buffer
		require.NoError(t, outputLogs(ctx, &buf, reader, "alpha", true, 1, false))
		assert.Equal(t, "three\n", buf.String())
	})
}

func TestRunLogsCmd(t *testing.T) {
	cfg := testConfig(t)
	pm := logging.NewPathManager(cfg.Storage.Logs)
	writeRunLog(t, pm, "alpha", "started\nfinished\n")

	run := func(t *testing.T, args ...string) (string, error) {
		c, out := newTestCommand(t, cfg)
		c.Flags().BoolP("follow", "f", false, "")
		c.Flags().IntP("lines", "n", logging.DefaultTailLines, "")
		c.Flags().Bool("full", false, "")
		c.Flags().Bool("pane", false, "")
		c.Flags().BoolP("list", "l", false, "")
		require.NoError(t, c.ParseFlags(args))
		err := runLogsCmd(c, c.Flags().Args())
		return out.String(), err
	}

	t.Run("latest run", func(t *testing.T) {
		out, err := run(t)
		require.NoError(t, err)
		assert.Equal(t, "started\nfinished\n", out)
	})

	t.Run("unknown run", func(t *testing.T) {
		_, err := run(t, "beta")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no log file found for run beta")
	})

	t.Run("list", func(t *testing.T) {
		out, err := run(t, "--list")
		require.NoError(t, err)
		assert.Contains(t, out, "RUN")
		assert.Regexp(t, `alpha\s+\d+ B\s+just now`, out)
	})
}
