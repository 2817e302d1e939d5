package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// TeeWriter copies everything written to a primary writer into a log file.
// It implements io.WriteCloser.
type TeeWriter struct {
	primary io.Writer
	logFile *os.File
	mu      *sync.Mutex
	owner   bool
}

// NewTeeWriter creates a TeeWriter that writes to both the primary writer
// and the log file at logPath. The log file is created or truncated.
func NewTeeWriter(primary io.Writer, logPath string) (*TeeWriter, error) {
	//nolint:gosec // G304: logPath comes from PathManager
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	return &TeeWriter{primary: primary, logFile: logFile, mu: &sync.Mutex{}, owner: true}, nil
}

// NewTeeWriterAppend is like NewTeeWriter but appends to an existing log.
func NewTeeWriterAppend(primary io.Writer, logPath string) (*TeeWriter, error) {
	logFile, err := openAppend(logPath)
	if err != nil {
		return nil, err
	}
	return &TeeWriter{primary: primary, logFile: logFile, mu: &sync.Mutex{}, owner: true}, nil
}

// Write writes p to the log file, then to the primary writer.
// With a nil primary only the log file is written.
func (t *TeeWriter) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile != nil {
		if _, err := t.logFile.Write(p); err != nil {
			return 0, fmt.Errorf("write to log file: %w", err)
		}
	}

	if t.primary != nil {
		return t.primary.Write(p)
	}
	return len(p), nil
}

// Close closes the log file if this writer owns it. The primary writer is
// not closed.
func (t *TeeWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile == nil {
		return nil
	}
	f := t.logFile
	t.logFile = nil
	if !t.owner {
		return nil
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// Sync flushes the log file to disk.
func (t *TeeWriter) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile != nil {
		return t.logFile.Sync()
	}
	return nil
}

// LogPath returns the path of the log file, or "" once closed.
func (t *TeeWriter) LogPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile != nil {
		return t.logFile.Name()
	}
	return ""
}

// RunWriters tees a run's terminal streams into one shared log file.
// Stdout carries status lines, Stderr carries slog output.
type RunWriters struct {
	Stdout *TeeWriter
	Stderr *TeeWriter
}

// NewRunWriters creates tee writers for stdout and stderr that append to the
// single log file at logPath. Both share one lock so lines never interleave.
func NewRunWriters(stdout, stderr io.Writer, logPath string) (*RunWriters, error) {
	logFile, err := openAppend(logPath)
	if err != nil {
		return nil, err
	}

	mu := &sync.Mutex{}
	return &RunWriters{
		Stdout: &TeeWriter{primary: stdout, logFile: logFile, mu: mu, owner: true},
		Stderr: &TeeWriter{primary: stderr, logFile: logFile, mu: mu},
	}, nil
}

// Close closes the shared log file.
func (r *RunWriters) Close() error {
	if err := r.Stderr.Close(); err != nil {
		return err
	}
	return r.Stdout.Close()
}

// Sync flushes the shared log file to disk.
func (r *RunWriters) Sync() error {
	return r.Stdout.Sync()
}

func openAppend(logPath string) (*os.File, error) {
	//nolint:gosec // G302/G304: logPath comes from PathManager; 0644 lets other tools read logs
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file for append: %w", err)
	}
	return f, nil
}
