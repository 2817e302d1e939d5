package bot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/jmgilman/codeweaver/internal/history"
	"github.com/jmgilman/codeweaver/internal/slogger"
	"github.com/jmgilman/codeweaver/internal/snippets"
)

// Prepare creates the output directory and checks that files can be written
// to it.
func (r *Runner) Prepare(dir string) error {
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}

	probe := filepath.Join(dir, probeFile)
	if err := afero.WriteFile(r.fs, probe, []byte("test"), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
	if err := r.fs.Remove(probe); err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
	return nil
}

// WriteSnippet types one snippet into a new editor buffer and saves it under
// a fresh name:
//
//	ctrl+n, type content, ctrl+s, type path, enter, verify the file exists
//
// Naming errors from the generator are returned unwrapped so callers can
// match names.ErrInvalidInput and names.ErrExhausted.
func (r *Runner) WriteSnippet(ctx context.Context, s snippets.Snippet) (Result, error) {
	log := slogger.L(ctx)
	res := Result{Snippet: s.Name, Status: history.StatusFailed}

	if err := s.Validate(); err != nil {
		return res, err
	}

	content, truncated := snippets.Render(s, r.now(), r.maxContent)
	res.Truncated = truncated
	if truncated {
		log.Warn("content truncated", "snippet", s.Name, "max", r.maxContent)
	}

	log.Debug("opening new file", "snippet", s.Name)
	if err := r.hotkey(ctx, "ctrl", "n"); err != nil {
		return res, fmt.Errorf("open new file: %w", err)
	}
	if err := r.wait(ctx, r.timing.NewFile); err != nil {
		return res, err
	}

	log.Debug("typing content", "snippet", s.Name, "chars", len(content))
	if err := r.typeText(ctx, content, r.timing.TypeInterval); err != nil {
		return res, fmt.Errorf("type content: %w", err)
	}
	if err := r.wait(ctx, r.timing.Pause); err != nil {
		return res, err
	}

	if err := r.hotkey(ctx, "ctrl", "s"); err != nil {
		return res, fmt.Errorf("open save dialog: %w", err)
	}
	if err := r.wait(ctx, r.timing.SaveDialog); err != nil {
		return res, err
	}

	name, path, err := r.names.Next(s.Name)
	if err != nil {
		r.dismiss(ctx)
		return res, err
	}
	res.Name, res.Path = name, path

	if len(path) > r.maxPath {
		r.dismiss(ctx)
		return res, fmt.Errorf("%w: %d characters exceeds %d", ErrPathTooLong, len(path), r.maxPath)
	}

	log.Debug("saving file", "path", path)
	if err := r.typeText(ctx, path, r.timing.PathInterval); err != nil {
		return res, fmt.Errorf("type path: %w", err)
	}
	if err := r.press(ctx, "enter"); err != nil {
		return res, fmt.Errorf("confirm save: %w", err)
	}
	if err := r.wait(ctx, r.timing.NewFile); err != nil {
		return res, err
	}

	if r.dryRun {
		res.Status = history.StatusCreated
		return res, nil
	}

	exists, err := afero.Exists(r.fs, path)
	if err != nil {
		return res, fmt.Errorf("check saved file: %w", err)
	}
	if !exists {
		res.Status = history.StatusMissing
		return res, fmt.Errorf("%w: %s", ErrFileMissing, path)
	}

	res.Status = history.StatusCreated
	log.Info("file saved", "file", name, "snippet", s.Name)
	return res, nil
}

// dismiss closes a save dialog left open after a naming failure.
func (r *Runner) dismiss(ctx context.Context) {
	if err := r.press(ctx, "escape"); err != nil && !errors.Is(err, context.Canceled) {
		slogger.L(ctx).Debug("dismiss save dialog", "error", err)
	}
}

func (r *Runner) hotkey(ctx context.Context, keys ...string) error {
	if r.dryRun {
		return ctx.Err()
	}
	return r.driver.Hotkey(ctx, keys...)
}

func (r *Runner) press(ctx context.Context, key string) error {
	if r.dryRun {
		return ctx.Err()
	}
	return r.driver.Press(ctx, key)
}

func (r *Runner) typeText(ctx context.Context, text string, interval time.Duration) error {
	if r.dryRun {
		return ctx.Err()
	}
	return r.driver.Type(ctx, text, interval)
}

func (r *Runner) wait(ctx context.Context, d time.Duration) error {
	if r.dryRun {
		return ctx.Err()
	}
	return r.sleep(ctx, d)
}
