package logging

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultTailLines is the default number of lines to read when tailing.
const DefaultTailLines = 100

// Reader reads run log files.
type Reader struct {
	path func(run string) string
}

// NewReader creates a Reader for the bot logs managed by pathMgr.
func NewReader(pathMgr *PathManager) *Reader {
	return &Reader{path: pathMgr.RunLogPath}
}

// NewPaneReader creates a Reader for the editor pane captures managed by pathMgr.
func NewPaneReader(pathMgr *PathManager) *Reader {
	return &Reader{path: pathMgr.PaneLogPath}
}

// ReadAll reads the entire log of a run.
func (r *Reader) ReadAll(run string) ([]string, error) {
	return readAllLines(r.path(run))
}

// ReadLastN reads the last n lines of a run's log.
// If n <= 0, uses DefaultTailLines.
func (r *Reader) ReadLastN(run string, n int) ([]string, error) {
	if n <= 0 {
		n = DefaultTailLines
	}
	return readLastNLines(r.path(run), n)
}

// Follow streams lines appended to a run's log to out, like `tail -f`.
// It blocks until ctx is cancelled, polling every pollInterval.
func (r *Reader) Follow(ctx context.Context, run string, out io.Writer, pollInterval time.Duration) error {
	file, err := os.Open(r.path(run))
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	return follow(ctx, bufio.NewReader(file), out, pollInterval)
}

// FollowWithHistory prints the last n lines and then follows, like
// `tail -n N -f`.
func (r *Reader) FollowWithHistory(ctx context.Context, run string, out io.Writer, n int, pollInterval time.Duration) error {
	lines, err := r.ReadLastN(run, n)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("write history: %w", err)
		}
	}

	return r.Follow(ctx, run, out, pollInterval)
}

func follow(ctx context.Context, reader *bufio.Reader, out io.Writer, pollInterval time.Duration) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		for {
			line, err := reader.ReadBytes('\n')
			// Partial lines are written as they arrive.
			if len(line) > 0 {
				if _, werr := out.Write(line); werr != nil {
					return fmt.Errorf("write output: %w", werr)
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("read line: %w", err)
			}
		}
	}
}

func readAllLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log file: %w", err)
	}
	return lines, nil
}

// readLastNLines keeps the last n lines in a ring buffer while scanning.
func readLastNLines(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	ring := make([]string, n)
	idx, count := 0, 0

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % n
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log file: %w", err)
	}

	switch {
	case count == 0:
		return nil, nil
	case count < n:
		return ring[:count], nil
	}

	result := make([]string, n)
	for i := range n {
		result[i] = ring[(idx+i)%n]
	}
	return result, nil
}
