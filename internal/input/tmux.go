package input

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/jmgilman/codeweaver/internal/exec"
)

const tmuxBinary = "tmux"

// tmuxKeys maps normalized key names to tmux key names.
var tmuxKeys = map[string]string{
	"enter":     "Enter",
	"tab":       "Tab",
	"escape":    "Escape",
	"backspace": "BSpace",
	"space":     "Space",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"home":      "Home",
	"end":       "End",
	"f2":        "F2",
}

// Tmux implements Driver by running a terminal editor inside a detached tmux
// session and delivering keys with send-keys.
type Tmux struct {
	exec    exec.Executor
	session string
	logPath string
}

// TmuxOption configures a Tmux driver.
type TmuxOption func(*Tmux)

// WithPaneLog mirrors the editor pane into the file at path.
func WithPaneLog(path string) TmuxOption {
	return func(t *Tmux) {
		t.logPath = path
	}
}

// NewTmux creates a Driver that types into the tmux session named session.
func NewTmux(e exec.Executor, session string, opts ...TmuxOption) *Tmux {
	t := &Tmux{exec: e, session: session}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tmux) Name() string {
	return BackendTmux
}

// Session returns the tmux session name the driver targets.
func (t *Tmux) Session() string {
	return t.session
}

func (t *Tmux) Check(context.Context) error {
	if _, err := t.exec.LookPath(tmuxBinary); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrUnavailable, tmuxBinary)
	}
	if t.session == "" {
		return fmt.Errorf("%w: no tmux session configured", ErrUnavailable)
	}
	return nil
}

// Launch creates the session running command. If the session already
// exists the command is not started again and input goes to the existing pane.
func (t *Tmux) Launch(ctx context.Context, command []string) error {
	err := t.CreateSession(ctx, command)
	if errors.Is(err, ErrSessionExists) {
		return nil
	}
	return err
}

func (t *Tmux) Hotkey(ctx context.Context, keys ...string) error {
	combo, err := normalizeCombo(keys)
	if err != nil {
		return err
	}

	key, err := tmuxCombo(combo)
	if err != nil {
		return err
	}
	return t.sendKeys(ctx, key)
}

func (t *Tmux) Press(ctx context.Context, key string) error {
	k, err := NormalizeKey(key)
	if err != nil {
		return err
	}
	key, err = tmuxCombo([]string{k})
	if err != nil {
		return err
	}
	return t.sendKeys(ctx, key)
}

// Type sends text literally. Newlines become Enter presses. With a positive
// interval each character is sent separately; otherwise a line at a time.
func (t *Tmux) Type(ctx context.Context, text string, interval time.Duration) error {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if err := t.typeLine(ctx, line, interval); err != nil {
			return err
		}
		if i == len(lines)-1 {
			break
		}
		if err := t.sendKeys(ctx, "Enter"); err != nil {
			return err
		}
		if err := Wait(ctx, interval); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tmux) typeLine(ctx context.Context, line string, interval time.Duration) error {
	if line == "" {
		return nil
	}
	if interval <= 0 {
		return t.sendKeys(ctx, "-l", "--", literalArg(line))
	}

	for _, r := range line {
		if err := t.sendKeys(ctx, "-l", "--", literalArg(string(r))); err != nil {
			return err
		}
		if err := Wait(ctx, interval); err != nil {
			return err
		}
	}
	return nil
}

// Close kills the session. A session that is already gone is not an error.
func (t *Tmux) Close(ctx context.Context) error {
	if err := t.KillSession(ctx); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// CreateSession starts a detached session running command.
func (t *Tmux) CreateSession(ctx context.Context, command []string) error {
	if t.session == "" {
		return fmt.Errorf("%w: session name is required", ErrLaunchFailed)
	}

	exists, err := t.HasSession(ctx)
	if err != nil {
		return fmt.Errorf("check existing sessions: %w", err)
	}
	if exists {
		return ErrSessionExists
	}

	// -d: detached, -x/-y: a usable pane size without an attached client
	args := []string{"new-session", "-d", "-s", t.session, "-x", "200", "-y", "50"}
	args = append(args, command...)

	result, err := t.exec.Run(ctx, &exec.RunOptions{
		Name: tmuxBinary,
		Args: args,
	})
	if err != nil {
		if result != nil && strings.Contains(string(result.Stderr), "duplicate session") {
			return ErrSessionExists
		}
		return fmt.Errorf("%w: %w", ErrLaunchFailed, exec.Failure(result, err))
	}

	if t.logPath != "" {
		pipeArgs := []string{"pipe-pane", "-t", t.session, "cat >> " + shellEscape(t.logPath)}
		// Pane capture is best effort; the session is already running.
		//nolint:errcheck // best-effort log capture
		_, _ = t.exec.Run(ctx, &exec.RunOptions{
			Name: tmuxBinary,
			Args: pipeArgs,
		})
	}

	return nil
}

// HasSession reports whether the driver's session is running.
func (t *Tmux) HasSession(ctx context.Context) (bool, error) {
	sessions, err := ListSessions(ctx, t.exec)
	if err != nil {
		return false, err
	}
	for _, s := range sessions {
		if s == t.session {
			return true, nil
		}
	}
	return false, nil
}

// KillSession terminates the driver's session.
func (t *Tmux) KillSession(ctx context.Context) error {
	result, err := t.exec.Run(ctx, &exec.RunOptions{
		Name: tmuxBinary,
		Args: []string{"kill-session", "-t", t.session},
	})
	if err != nil {
		if isNoSession(result) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("kill session: %w", err)
	}
	return nil
}

// Attach connects the terminal to the session so the editor can be watched.
// With readOnly set, keystrokes from the terminal are ignored by tmux.
func (t *Tmux) Attach(ctx context.Context, readOnly bool) error {
	args := []string{"attach-session", "-t", t.session}
	if readOnly {
		args = append(args, "-r")
	}

	var stderrBuf bytes.Buffer
	opts := &exec.RunOptions{
		Name:   tmuxBinary,
		Args:   args,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: io.MultiWriter(os.Stderr, &stderrBuf),
	}

	stdinFd := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFd) {
		oldState, err := term.MakeRaw(stdinFd)
		if err != nil {
			return fmt.Errorf("set terminal raw mode: %w", err)
		}
		defer func() { _ = term.Restore(stdinFd, oldState) }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)
	}

	if _, err := t.exec.Run(ctx, opts); err != nil {
		stderr := stderrBuf.String()
		if strings.Contains(stderr, "no session") || strings.Contains(stderr, "can't find session") {
			return ErrSessionNotFound
		}
		return fmt.Errorf("attach session: %w", err)
	}
	return nil
}

// ListSessions returns the names of all running tmux sessions.
func ListSessions(ctx context.Context, e exec.Executor) ([]string, error) {
	result, err := e.Run(ctx, &exec.RunOptions{
		Name: tmuxBinary,
		Args: []string{"list-sessions", "-F", "#{session_name}"},
	})
	if err != nil {
		// Only known "no sessions" messages mean an empty list.
		if result != nil {
			stderr := string(result.Stderr)
			if strings.Contains(stderr, "no server running") ||
				strings.Contains(stderr, "no sessions") ||
				strings.Contains(stderr, "error connecting to") {
				return []string{}, nil
			}
		}
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var sessions []string
	for _, line := range strings.Split(string(result.Stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sessions = append(sessions, line)
		}
	}
	if sessions == nil {
		sessions = []string{}
	}
	return sessions, nil
}

func (t *Tmux) sendKeys(ctx context.Context, keys ...string) error {
	args := append([]string{"send-keys", "-t", t.session}, keys...)
	result, err := t.exec.Run(ctx, &exec.RunOptions{
		Name: tmuxBinary,
		Args: args,
	})
	if err != nil {
		if isNoSession(result) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("tmux send-keys: %w", exec.Failure(result, err))
	}
	return nil
}

// literalArg escapes a trailing ";", which tmux otherwise takes as a command
// separator and strips. tmux turns a trailing `\;` back into ";".
func literalArg(s string) string {
	if strings.HasSuffix(s, ";") {
		return s[:len(s)-1] + `\;`
	}
	return s
}

// tmuxCombo renders normalized keys in tmux notation: C-s, M-x, Enter.
func tmuxCombo(combo []string) (string, error) {
	key := combo[len(combo)-1]
	name, named := tmuxKeys[key]
	if !named {
		name = key
	}

	var prefix string
	for _, mod := range combo[:len(combo)-1] {
		switch mod {
		case "ctrl":
			prefix += "C-"
		case "alt":
			prefix += "M-"
		case "shift":
			if !named {
				name = strings.ToUpper(name)
				continue
			}
			prefix += "S-"
		default:
			return "", fmt.Errorf("%w: tmux cannot send %q", ErrUnknownKey, mod)
		}
	}

	if modifiers[key] {
		return "", fmt.Errorf("%w: %q needs a key to modify", ErrUnknownKey, key)
	}
	return prefix + name, nil
}

func isNoSession(result *exec.Result) bool {
	if result == nil {
		return false
	}
	stderr := string(result.Stderr)
	return strings.Contains(stderr, "no session") ||
		strings.Contains(stderr, "can't find session") ||
		strings.Contains(stderr, "no server running")
}

// shellEscape wraps s in single quotes for use in a shell command.
func shellEscape(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
