// Package bot drives an editor to write snippets into uniquely named files.
package bot

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/spf13/afero"

	"github.com/jmgilman/codeweaver/internal/history"
	"github.com/jmgilman/codeweaver/internal/input"
	"github.com/jmgilman/codeweaver/internal/snippets"
)

// Sentinel errors for bot operations.
var (
	ErrPathTooLong     = errors.New("path too long")
	ErrFileMissing     = errors.New("saved file not found")
	ErrNotWritable     = errors.New("output directory not writable")
	ErrInvalidDuration = errors.New("run duration must be positive")
)

// Stop reasons reported in Stats.
const (
	StopElapsed   = "duration elapsed"
	StopFailures  = "too many consecutive failures"
	StopExhausted = "file names exhausted"
	StopLimit     = "attempt limit reached"
	StopCancelled = "interrupted"
	StopError     = "error"
)

// probeFile is written and removed to check the output directory.
const probeFile = ".codeweaver_write_test"

// nameGenerator hands out unique file names.
type nameGenerator interface {
	Next(label string) (name, path string, err error)
}

// snippetPicker chooses the next snippet to type.
type snippetPicker interface {
	Pick(r *rand.Rand) (snippets.Snippet, error)
}

// historyRecorder stores attempt outcomes.
type historyRecorder interface {
	Add(ctx context.Context, entry history.Entry) (history.Entry, error)
}

// Timing holds the open-loop delays between input actions.
type Timing struct {
	NewFile      time.Duration // after ctrl+n and after saving
	Pause        time.Duration // after typing the content
	SaveDialog   time.Duration // after ctrl+s
	LoopInterval time.Duration // between attempts
	RetryDelay   time.Duration // after an unexpected error
	TypeInterval time.Duration // between content characters
	PathInterval time.Duration // between path characters
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Timing           Timing
	MaxPathLength    int
	MaxContentLength int

	// DryRun skips input, waits, verification and history; only snippet
	// selection and naming take place.
	DryRun bool

	Fs    afero.Fs                                  // defaults to the OS filesystem
	Rand  *rand.Rand                                // nil uses the global source
	Now   func() time.Time                          // defaults to time.Now
	Sleep func(context.Context, time.Duration) error // defaults to input.Wait
}

// Runner executes the write loop.
type Runner struct {
	driver  input.Driver
	names   nameGenerator
	catalog snippetPicker
	history historyRecorder

	timing     Timing
	maxPath    int
	maxContent int
	dryRun     bool

	fs    afero.Fs
	rand  *rand.Rand
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewRunner creates a Runner. store may be nil to disable history.
func NewRunner(driver input.Driver, gen nameGenerator, catalog snippetPicker, store historyRecorder, cfg RunnerConfig) *Runner {
	r := &Runner{
		driver:     driver,
		names:      gen,
		catalog:    catalog,
		history:    store,
		timing:     cfg.Timing,
		maxPath:    cfg.MaxPathLength,
		maxContent: cfg.MaxContentLength,
		dryRun:     cfg.DryRun,
		fs:         cfg.Fs,
		rand:       cfg.Rand,
		now:        cfg.Now,
		sleep:      cfg.Sleep,
	}

	if r.fs == nil {
		r.fs = afero.NewOsFs()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.sleep == nil {
		r.sleep = input.Wait
	}
	if r.maxPath <= 0 {
		r.maxPath = 260
	}
	if r.maxContent <= 0 {
		r.maxContent = snippets.DefaultMaxContentLength
	}
	return r
}

// Result is the outcome of one WriteSnippet call.
type Result struct {
	Snippet   string
	Name      string
	Path      string
	Status    history.Status
	Truncated bool
	Err       error
}

// Stats summarizes a run.
type Stats struct {
	Attempts            int
	Succeeded           int
	Failed              int
	ConsecutiveFailures int
	Started             time.Time
	Finished            time.Time
	StopReason          string
}

// Elapsed returns the run time so far, or the total once finished.
func (s Stats) Elapsed(now time.Time) time.Duration {
	if !s.Finished.IsZero() {
		now = s.Finished
	}
	return now.Sub(s.Started)
}

// SuccessRate returns the fraction of attempts that created a file.
func (s Stats) SuccessRate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Attempts)
}
