package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathManager_Paths(t *testing.T) {
	pm := NewPathManager("/var/log/codeweaver")

	assert.Equal(t, "/var/log/codeweaver", pm.BaseDir())
	assert.Equal(t, "/var/log/codeweaver/happy_turing.log", pm.RunLogPath("happy_turing"))
	assert.Equal(t, "/var/log/codeweaver/happy_turing.pane.log", pm.PaneLogPath("happy_turing"))
}

func TestPathManager_EnsureRunLog(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "logs")
	pm := NewPathManager(baseDir)

	path, err := pm.EnsureRunLog("run1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(baseDir, "run1.log"), path)

	info, err := os.Stat(baseDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.False(t, pm.LogExists("run1"), "only the directory is created")
}

func TestPathManager_LogExists(t *testing.T) {
	pm := NewPathManager(t.TempDir())
	assert.False(t, pm.LogExists("run1"))

	require.NoError(t, os.WriteFile(pm.RunLogPath("run1"), []byte("x\n"), 0644))
	assert.True(t, pm.LogExists("run1"))
}

func TestPathManager_RemoveRunLogs(t *testing.T) {
	pm := NewPathManager(t.TempDir())
	require.NoError(t, os.WriteFile(pm.RunLogPath("run1"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(pm.PaneLogPath("run1"), []byte("x"), 0644))

	require.NoError(t, pm.RemoveRunLogs("run1"))
	assert.NoFileExists(t, pm.RunLogPath("run1"))
	assert.NoFileExists(t, pm.PaneLogPath("run1"))

	assert.NoError(t, pm.RemoveRunLogs("run1"), "removing missing logs is not an error")
}

func TestPathManager_ListRuns(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		pm := NewPathManager(filepath.Join(t.TempDir(), "nope"))

		runs, err := pm.ListRuns()
		require.NoError(t, err)
		assert.Empty(t, runs)

		latest, err := pm.Latest()
		require.NoError(t, err)
		assert.Empty(t, latest)
	})

	t.Run("newest first, pane logs and other files skipped", func(t *testing.T) {
		dir := t.TempDir()
		pm := NewPathManager(dir)
		now := time.Now()

		write := func(name string, age time.Duration) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte("line\n"), 0644))
			require.NoError(t, os.Chtimes(path, now.Add(-age), now.Add(-age)))
		}
		write("old.log", 2*time.Hour)
		write("new.log", time.Minute)
		write("new.pane.log", 0)
		write("notes.txt", 0)
		require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.log"), 0755))

		runs, err := pm.ListRuns()
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "new", runs[0].Run)
		assert.Equal(t, filepath.Join(dir, "new.log"), runs[0].Path)
		assert.Equal(t, int64(5), runs[0].Size)
		assert.Equal(t, "old", runs[1].Run)

		latest, err := pm.Latest()
		require.NoError(t, err)
		assert.Equal(t, "new", latest)
	})
}
