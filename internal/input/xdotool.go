package input

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmgilman/codeweaver/internal/exec"
)

const xdotoolBinary = "xdotool"

// xdotoolKeysyms maps normalized key names to X11 keysym names.
var xdotoolKeysyms = map[string]string{
	"enter":     "Return",
	"tab":       "Tab",
	"escape":    "Escape",
	"backspace": "BackSpace",
	"space":     "space",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"home":      "Home",
	"end":       "End",
	"f2":        "F2",
}

// xdotool implements Driver with X11 synthetic events via the xdotool CLI.
type xdotool struct {
	exec exec.Executor
}

// NewXdotool creates a Driver that uses the xdotool CLI.
func NewXdotool(e exec.Executor) Driver {
	return &xdotool{exec: e}
}

func (x *xdotool) Name() string {
	return BackendXdotool
}

func (x *xdotool) Check(ctx context.Context) error {
	if _, err := x.exec.LookPath(xdotoolBinary); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrUnavailable, xdotoolBinary)
	}

	// Querying the pointer fails fast when no X display is reachable.
	result, err := x.exec.Run(ctx, &exec.RunOptions{
		Name: xdotoolBinary,
		Args: []string{"getmouselocation"},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, exec.Failure(result, err))
	}
	return nil
}

func (x *xdotool) Launch(ctx context.Context, command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("%w: empty command", ErrLaunchFailed)
	}

	if _, err := x.exec.Start(ctx, &exec.RunOptions{
		Name: command[0],
		Args: command[1:],
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}
	return nil
}

func (x *xdotool) Hotkey(ctx context.Context, keys ...string) error {
	combo, err := normalizeCombo(keys)
	if err != nil {
		return err
	}

	syms := make([]string, len(combo))
	for i, k := range combo {
		syms[i] = xdotoolKeysym(k)
	}

	return x.run(ctx, nil, "key", "--clearmodifiers", strings.Join(syms, "+"))
}

func (x *xdotool) Press(ctx context.Context, key string) error {
	k, err := NormalizeKey(key)
	if err != nil {
		return err
	}
	return x.run(ctx, nil, "key", "--clearmodifiers", xdotoolKeysym(k))
}

func (x *xdotool) Type(ctx context.Context, text string, interval time.Duration) error {
	if text == "" {
		return nil
	}

	delay := strconv.FormatInt(interval.Milliseconds(), 10)
	// Reading from stdin avoids argv limits and option parsing of the text.
	return x.run(ctx, strings.NewReader(text), "type", "--clearmodifiers", "--delay", delay, "--file", "-")
}

func (x *xdotool) Close(context.Context) error {
	return nil
}

func (x *xdotool) run(ctx context.Context, stdin *strings.Reader, args ...string) error {
	opts := &exec.RunOptions{
		Name: xdotoolBinary,
		Args: args,
	}
	if stdin != nil {
		opts.Stdin = stdin
	}

	result, err := x.exec.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("xdotool %s: %w", args[0], exec.Failure(result, err))
	}
	return nil
}

func xdotoolKeysym(k string) string {
	if sym, ok := xdotoolKeysyms[k]; ok {
		return sym
	}
	return k
}
