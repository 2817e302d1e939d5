// Package logging stores and reads the per-run log files of the bot.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	logExt     = ".log"
	paneSuffix = ".pane"
)

// PathManager builds run log paths under a base directory:
//
//	<baseDir>/<run>.log       bot log (status lines and slog output)
//	<baseDir>/<run>.pane.log  editor pane capture (tmux backend only)
type PathManager struct {
	baseDir string
}

// RunLog describes a run log on disk.
type RunLog struct {
	Run     string
	Path    string
	Size    int64
	ModTime time.Time
}

// NewPathManager creates a new PathManager with the given base directory.
// The base directory is typically ~/.local/share/codeweaver/logs.
func NewPathManager(baseDir string) *PathManager {
	return &PathManager{baseDir: baseDir}
}

// BaseDir returns the base log directory.
func (p *PathManager) BaseDir() string {
	return p.baseDir
}

// RunLogPath returns the bot log path for a run.
func (p *PathManager) RunLogPath(run string) string {
	return filepath.Join(p.baseDir, run+logExt)
}

// PaneLogPath returns the editor pane capture path for a run.
func (p *PathManager) PaneLogPath(run string) string {
	return filepath.Join(p.baseDir, run+paneSuffix+logExt)
}

// EnsureRunLog creates the base directory and returns the run's log path.
func (p *PathManager) EnsureRunLog(run string) (string, error) {
	if err := os.MkdirAll(p.baseDir, 0o750); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	return p.RunLogPath(run), nil
}

// LogExists checks if a bot log exists for the run.
func (p *PathManager) LogExists(run string) bool {
	_, err := os.Stat(p.RunLogPath(run))
	return err == nil
}

// RemoveRunLogs removes the bot and pane logs of a run if they exist.
func (p *PathManager) RemoveRunLogs(run string) error {
	for _, path := range []string{p.RunLogPath(run), p.PaneLogPath(run)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove run log: %w", err)
		}
	}
	return nil
}

// ListRuns returns the bot logs in the base directory, most recently
// modified first. Pane captures are not listed.
func (p *PathManager) ListRuns() ([]RunLog, error) {
	entries, err := os.ReadDir(p.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	var runs []RunLog
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != logExt {
			continue
		}
		run := strings.TrimSuffix(name, logExt)
		if strings.HasSuffix(run, paneSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, RunLog{
			Run:     run,
			Path:    filepath.Join(p.baseDir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].ModTime.Equal(runs[j].ModTime) {
			return runs[i].Run > runs[j].Run
		}
		return runs[i].ModTime.After(runs[j].ModTime)
	})
	return runs, nil
}

// Latest returns the most recently written run, or "" if there are none.
func (p *PathManager) Latest() (string, error) {
	runs, err := p.ListRuns()
	if err != nil || len(runs) == 0 {
		return "", err
	}
	return runs[0].Run, nil
}
