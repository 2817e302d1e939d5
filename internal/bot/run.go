package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmgilman/codeweaver/internal/history"
	"github.com/jmgilman/codeweaver/internal/names"
	"github.com/jmgilman/codeweaver/internal/slogger"
	"github.com/jmgilman/codeweaver/internal/snippets"
)

// Options bounds a single Run.
type Options struct {
	// Run names the run in history and logs.
	Run string

	// Duration is how long to keep writing. Required.
	Duration time.Duration

	// MaxConsecutiveFailures stops the run after this many failed attempts
	// in a row. Zero disables the check.
	MaxConsecutiveFailures int

	// Limit stops the run after this many attempts. Zero means no limit.
	Limit int

	// OnAttempt is called after every attempt with its result and the
	// running totals.
	OnAttempt func(Result, Stats)
}

// Run writes snippets until the duration elapses, ctx is cancelled, too
// many attempts fail in a row, or the name generator is exhausted.
// Cancellation is a normal stop and is not returned as an error.
func (r *Runner) Run(ctx context.Context, opts Options) (Stats, error) {
	if opts.Duration <= 0 {
		return Stats{}, ErrInvalidDuration
	}

	log := slogger.L(ctx).With("run", opts.Run)
	ctx = slogger.WithLogger(ctx, log)

	stats := Stats{Started: r.now()}
	deadline := stats.Started.Add(opts.Duration)
	log.Info("run started", "duration", opts.Duration, "until", deadline.Format(time.DateTime))

	finish := func(reason string, err error) (Stats, error) {
		stats.Finished = r.now()
		stats.StopReason = reason
		log.Info("run finished",
			"reason", reason,
			"attempts", stats.Attempts,
			"succeeded", stats.Succeeded,
			"failed", stats.Failed,
			"elapsed", stats.Elapsed(stats.Finished).Round(time.Second),
		)
		return stats, err
	}

	for {
		switch {
		case ctx.Err() != nil:
			return finish(StopCancelled, nil)
		case !r.now().Before(deadline):
			return finish(StopElapsed, nil)
		case opts.MaxConsecutiveFailures > 0 && stats.ConsecutiveFailures >= opts.MaxConsecutiveFailures:
			return finish(StopFailures, nil)
		case opts.Limit > 0 && stats.Attempts >= opts.Limit:
			return finish(StopLimit, nil)
		}

		s, err := r.catalog.Pick(r.rand)
		if err != nil {
			return finish(StopError, fmt.Errorf("pick snippet: %w", err))
		}

		res, err := r.WriteSnippet(ctx, s)
		if isCancel(err) && ctx.Err() != nil {
			return finish(StopCancelled, nil)
		}

		stats.Attempts++
		if err == nil {
			stats.Succeeded++
			stats.ConsecutiveFailures = 0
		} else {
			res.Err = err
			stats.Failed++
			stats.ConsecutiveFailures++
			log.Warn("attempt failed", "snippet", s.Name, "error", err, "consecutive", stats.ConsecutiveFailures)
		}

		r.record(ctx, opts.Run, res)
		if opts.OnAttempt != nil {
			opts.OnAttempt(res, stats)
		}

		remaining := deadline.Sub(r.now())
		log.Info("progress",
			"succeeded", stats.Succeeded,
			"failed", stats.Failed,
			"remaining", max(remaining, 0).Round(time.Second),
		)

		if errors.Is(err, names.ErrExhausted) {
			return finish(StopExhausted, err)
		}

		delay := r.timing.LoopInterval
		if err != nil && !expectedFailure(err) {
			delay = r.timing.RetryDelay
		}
		if err := r.wait(ctx, delay); err != nil {
			return finish(StopCancelled, nil)
		}
	}
}

// record appends the result to history. Failures are logged, not returned.
func (r *Runner) record(ctx context.Context, run string, res Result) {
	if r.history == nil || r.dryRun {
		return
	}

	entry := history.Entry{
		Run:     run,
		Snippet: res.Snippet,
		Name:    res.Name,
		Path:    res.Path,
		Status:  res.Status,
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}

	if _, err := r.history.Add(ctx, entry); err != nil {
		slogger.L(ctx).Warn("record history", "error", err)
	}
}

// expectedFailure reports whether err is an ordinary per-attempt failure
// rather than a problem with the input backend.
func expectedFailure(err error) bool {
	return errors.Is(err, names.ErrInvalidInput) ||
		errors.Is(err, snippets.ErrInvalidSnippet) ||
		errors.Is(err, ErrPathTooLong) ||
		errors.Is(err, ErrFileMissing)
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
