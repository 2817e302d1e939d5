// Package input drives an editor with synthetic keystrokes.
// It defines a backend-neutral Driver that is implemented by xdotool (X11
// keyboard events) and tmux (send-keys into a terminal editor's pane).
package input

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmgilman/codeweaver/internal/exec"
)

// Backend names.
const (
	BackendXdotool = "xdotool"
	BackendTmux    = "tmux"
)

// SessionPrefix namespaces tmux sessions created for editor runs.
const SessionPrefix = "cwb"

// Sentinel errors for input operations.
var (
	ErrUnknownKey       = errors.New("unknown key")
	ErrUnknownBackend   = errors.New("unknown input backend")
	ErrUnavailable      = errors.New("input backend unavailable")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExists    = errors.New("session already exists")
	ErrLaunchFailed     = errors.New("failed to launch editor")
	ErrInvalidSessionID = errors.New("run name cannot contain hyphens")
)

// Driver sends keystrokes to the focused editor.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/driver.go . Driver
type Driver interface {
	// Name returns the backend name.
	Name() string

	// Check verifies the backend can deliver input.
	// Returns ErrUnavailable with details if not.
	Check(ctx context.Context) error

	// Launch starts the editor command so that it receives further input.
	Launch(ctx context.Context, command []string) error

	// Hotkey presses the keys together, e.g. Hotkey(ctx, "ctrl", "s").
	// Returns ErrUnknownKey for names outside the supported set.
	Hotkey(ctx context.Context, keys ...string) error

	// Press taps a single key.
	Press(ctx context.Context, key string) error

	// Type enters text, waiting interval between characters.
	Type(ctx context.Context, text string, interval time.Duration) error

	// Close releases backend resources (e.g. the tmux session).
	Close(ctx context.Context) error
}

// New creates the Driver for backend. session names the tmux session and is
// ignored by xdotool.
func New(backend string, e exec.Executor, session string, opts ...TmuxOption) (Driver, error) {
	switch backend {
	case BackendXdotool:
		return NewXdotool(e), nil
	case BackendTmux:
		return NewTmux(e, session, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// modifiers are keys that can be held in a hotkey combination.
var modifiers = map[string]bool{
	"ctrl":  true,
	"shift": true,
	"alt":   true,
	"super": true,
}

// namedKeys are the non-character keys a Driver understands.
var namedKeys = map[string]bool{
	"enter":     true,
	"tab":       true,
	"escape":    true,
	"backspace": true,
	"space":     true,
	"up":        true,
	"down":      true,
	"left":      true,
	"right":     true,
	"home":      true,
	"end":       true,
	"f2":        true,
}

// NormalizeKey lower-cases a key name and checks it is supported.
// Single letters and digits are always accepted.
func NormalizeKey(key string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	switch {
	case k == "return":
		return "enter", nil
	case k == "esc":
		return "escape", nil
	case modifiers[k], namedKeys[k]:
		return k, nil
	case len(k) == 1 && (k[0] >= 'a' && k[0] <= 'z' || k[0] >= '0' && k[0] <= '9'):
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// normalizeCombo validates a hotkey: zero or more modifiers followed by one key.
func normalizeCombo(keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: empty hotkey", ErrUnknownKey)
	}

	out := make([]string, len(keys))
	for i, key := range keys {
		k, err := NormalizeKey(key)
		if err != nil {
			return nil, err
		}
		if i < len(keys)-1 && !modifiers[k] {
			return nil, fmt.Errorf("%w: %q must be a modifier in %v", ErrUnknownKey, key, keys)
		}
		out[i] = k
	}
	return out, nil
}

// SessionName creates the tmux session name for a run: cwb-<run>.
// The run name must not contain hyphens so ParseSessionName can recover it.
func SessionName(run string) (string, error) {
	if run == "" || strings.Contains(run, "-") {
		return "", ErrInvalidSessionID
	}
	return SessionPrefix + "-" + run, nil
}

// ParseSessionName extracts the run name from a session name, or "" if the
// name was not created by SessionName.
func ParseSessionName(name string) string {
	run, ok := strings.CutPrefix(name, SessionPrefix+"-")
	if !ok || run == "" || strings.Contains(run, "-") {
		return ""
	}
	return run
}

// Wait blocks for d or until ctx is done, returning ctx.Err() in the latter case.
func Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
