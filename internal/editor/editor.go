// Package editor launches the editor that receives the typed snippets.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmgilman/codeweaver/internal/config"
	"github.com/jmgilman/codeweaver/internal/flags"
	"github.com/jmgilman/codeweaver/internal/input"
	"github.com/jmgilman/codeweaver/internal/slogger"
)

// runDialogKeys opens the desktop run dialog (GNOME, KDE, Xfce).
var runDialogKeys = []string{"alt", "f2"}

// Launcher starts the configured editor through an input driver.
type Launcher struct {
	driver     input.Driver
	executable string
	flags      flags.Flags
	delay      time.Duration
	interval   time.Duration
	sleep      func(context.Context, time.Duration) error
}

// Options configures a Launcher.
type Options struct {
	Executable string
	Flags      flags.Flags

	// Delay is how long to wait after launching for the window to appear.
	Delay time.Duration

	// TypeInterval paces the fallback command typed into the run dialog.
	TypeInterval time.Duration
}

// New creates a Launcher. The executable is validated immediately.
func New(driver input.Driver, opts Options) (*Launcher, error) {
	if err := config.ValidateExecutable(opts.Executable); err != nil {
		return nil, err
	}

	return &Launcher{
		driver:     driver,
		executable: opts.Executable,
		flags:      opts.Flags,
		delay:      opts.Delay,
		interval:   opts.TypeInterval,
		sleep:      input.Wait,
	}, nil
}

// Command returns the argv used to start the editor.
func (l *Launcher) Command() []string {
	return append([]string{l.executable}, flags.ToArgs(l.flags)...)
}

// Launch starts the editor and waits for its window. When starting the
// process directly fails on the xdotool backend, the command is typed into the
// desktop run dialog instead.
func (l *Launcher) Launch(ctx context.Context) error {
	log := slogger.L(ctx)
	command := l.Command()

	log.Info("launching editor", "command", strings.Join(command, " "), "backend", l.driver.Name())

	err := l.driver.Launch(ctx, command)
	if err != nil {
		if l.driver.Name() != input.BackendXdotool || !errors.Is(err, input.ErrLaunchFailed) {
			return fmt.Errorf("launch editor: %w", err)
		}

		log.Warn("direct launch failed, trying run dialog", "error", err)
		if ferr := l.runDialog(ctx, command); ferr != nil {
			return fmt.Errorf("launch editor: %w", errors.Join(err, ferr))
		}
	}

	log.Debug("waiting for editor window", "delay", l.delay)
	return l.sleep(ctx, l.delay)
}

func (l *Launcher) runDialog(ctx context.Context, command []string) error {
	if err := l.driver.Hotkey(ctx, runDialogKeys...); err != nil {
		return fmt.Errorf("open run dialog: %w", err)
	}
	if err := l.sleep(ctx, time.Second); err != nil {
		return err
	}
	if err := l.driver.Type(ctx, strings.Join(command, " "), l.interval); err != nil {
		return fmt.Errorf("type command: %w", err)
	}
	return l.driver.Press(ctx, "enter")
}
