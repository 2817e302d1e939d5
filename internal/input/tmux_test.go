package input

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/codeweaver/internal/exec"
	"github.com/jmgilman/codeweaver/internal/exec/mocks"
)

const tmuxCmdListSessions = "list-sessions"

func noServer() (*exec.Result, error) {
	return &exec.Result{Stderr: []byte("no server running on /tmp/tmux-0/default"), ExitCode: 1}, errors.New("exit code 1")
}

func TestTmux_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("available", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			LookPathFunc: func(string) (string, error) { return "/usr/bin/tmux", nil },
		}
		assert.NoError(t, NewTmux(mockExec, "cwb-run").Check(ctx))
	})

	t.Run("missing binary", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			LookPathFunc: func(string) (string, error) { return "", errors.New("not found") },
		}
		assert.ErrorIs(t, NewTmux(mockExec, "cwb-run").Check(ctx), ErrUnavailable)
	})

	t.Run("missing session name", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			LookPathFunc: func(string) (string, error) { return "/usr/bin/tmux", nil },
		}
		assert.ErrorIs(t, NewTmux(mockExec, "").Check(ctx), ErrUnavailable)
	})
}

func TestTmux_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("creates detached session running the editor", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(_ context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				if opts.Args[0] == tmuxCmdListSessions {
					return noServer()
				}
				assert.Equal(t, "tmux", opts.Name)
				assert.Equal(t, []string{"new-session", "-d", "-s", "cwb-run", "-x", "200", "-y", "50", "nvim", "-n"}, opts.Args)
				return &exec.Result{}, nil
			},
		}

		require.NoError(t, NewTmux(mockExec, "cwb-run").CreateSession(ctx, []string{"nvim", "-n"}))
		assert.Len(t, mockExec.RunCalls(), 2)
	})

	t.Run("pipes pane output to log", func(t *testing.T) {
		var pipeArgs []string
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(_ context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				switch opts.Args[0] {
				case tmuxCmdListSessions:
					return noServer()
				case "pipe-pane":
					pipeArgs = opts.Args
				}
				return &exec.Result{}, nil
			},
		}

		tm := NewTmux(mockExec, "cwb-run", WithPaneLog("/tmp/my logs/it's.log"))
		require.NoError(t, tm.CreateSession(ctx, []string{"vim"}))
		assert.Equal(t, []string{"pipe-pane", "-t", "cwb-run", `cat >> '/tmp/my logs/it'\''s.log'`}, pipeArgs)
	})

	t.Run("existing session", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(context.Context, *exec.RunOptions) (*exec.Result, error) {
				return &exec.Result{Stdout: []byte("other\ncwb-run\n")}, nil
			},
		}

		err := NewTmux(mockExec, "cwb-run").CreateSession(ctx, []string{"vim"})
		assert.ErrorIs(t, err, ErrSessionExists)
	})

	t.Run("duplicate session race", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(_ context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				if opts.Args[0] == tmuxCmdListSessions {
					return noServer()
				}
				return &exec.Result{Stderr: []byte("duplicate session: cwb-run"), ExitCode: 1}, errors.New("exit 1")
			},
		}

		err := NewTmux(mockExec, "cwb-run").CreateSession(ctx, []string{"vim"})
		assert.ErrorIs(t, err, ErrSessionExists)
	})

	t.Run("list failure", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(context.Context, *exec.RunOptions) (*exec.Result, error) {
				return &exec.Result{Stderr: []byte("permission denied"), ExitCode: 1}, errors.New("exit 1")
			},
		}

		err := NewTmux(mockExec, "cwb-run").CreateSession(ctx, []string{"vim"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "check existing sessions")
	})
}

func TestTmux_Launch(t *testing.T) {
	mockExec := &mocks.ExecutorMock{
		RunFunc: func(context.Context, *exec.RunOptions) (*exec.Result, error) {
			return &exec.Result{Stdout: []byte("cwb-run\n")}, nil
		},
	}

	err := NewTmux(mockExec, "cwb-run").Launch(context.Background(), []string{"vim"})
	assert.NoError(t, err, "an already running session is reused")
}

func TestTmux_Keys(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(*Tmux) error
		want string
	}{
		{"ctrl", func(tm *Tmux) error { return tm.Hotkey(ctx, "ctrl", "n") }, "C-n"},
		{"alt", func(tm *Tmux) error { return tm.Hotkey(ctx, "alt", "x") }, "M-x"},
		{"shift letter", func(tm *Tmux) error { return tm.Hotkey(ctx, "ctrl", "shift", "s") }, "C-S"},
		{"shift named", func(tm *Tmux) error { return tm.Hotkey(ctx, "shift", "tab") }, "S-Tab"},
		{"enter", func(tm *Tmux) error { return tm.Press(ctx, "enter") }, "Enter"},
		{"backspace", func(tm *Tmux) error { return tm.Press(ctx, "backspace") }, "BSpace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockExec := &mocks.ExecutorMock{RunFunc: okRun}

			require.NoError(t, tt.call(NewTmux(mockExec, "cwb-run")))
			require.Len(t, mockExec.RunCalls(), 1)
			assert.Equal(t, []string{"send-keys", "-t", "cwb-run", tt.want}, mockExec.RunCalls()[0].Opts.Args)
		})
	}

	t.Run("super is not expressible", func(t *testing.T) {
		err := NewTmux(&mocks.ExecutorMock{}, "cwb-run").Hotkey(ctx, "super", "r")
		assert.ErrorIs(t, err, ErrUnknownKey)
	})

	t.Run("bare modifier", func(t *testing.T) {
		err := NewTmux(&mocks.ExecutorMock{}, "cwb-run").Press(ctx, "ctrl")
		assert.ErrorIs(t, err, ErrUnknownKey)
	})

	t.Run("missing session", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(context.Context, *exec.RunOptions) (*exec.Result, error) {
				return &exec.Result{Stderr: []byte("can't find session: cwb-run")}, errors.New("exit 1")
			},
		}
		err := NewTmux(mockExec, "cwb-run").Press(ctx, "enter")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestTmux_Type(t *testing.T) {
	ctx := context.Background()

	t.Run("line at a time without interval", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{RunFunc: okRun}

		require.NoError(t, NewTmux(mockExec, "s").Type(ctx, "a = 1\n\nprint(a)", 0))

		var got [][]string
		for _, c := range mockExec.RunCalls() {
			got = append(got, c.Opts.Args[3:])
		}
		assert.Equal(t, [][]string{
			{"-l", "--", "a = 1"},
			{"Enter"},
			{"Enter"},
			{"-l", "--", "print(a)"},
		}, got)
	})

	t.Run("rune at a time with interval", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{RunFunc: okRun}

		require.NoError(t, NewTmux(mockExec, "s").Type(ctx, "hé", 1))

		calls := mockExec.RunCalls()
		require.Len(t, calls, 2)
		assert.Equal(t, []string{"send-keys", "-t", "s", "-l", "--", "h"}, calls[0].Opts.Args)
		assert.Equal(t, []string{"send-keys", "-t", "s", "-l", "--", "é"}, calls[1].Opts.Args)
	})

	t.Run("escapes trailing semicolons", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{RunFunc: okRun}
		tm := NewTmux(mockExec, "s")

		require.NoError(t, tm.Type(ctx, "int x = 1;\nfoo(a; b)", 0))
		require.NoError(t, tm.Type(ctx, "a;", 1))

		var got [][]string
		for _, c := range mockExec.RunCalls() {
			got = append(got, c.Opts.Args[3:])
		}
		assert.Equal(t, [][]string{
			{"-l", "--", `int x = 1\;`},
			{"Enter"},
			{"-l", "--", "foo(a; b)"},
			{"-l", "--", "a"},
			{"-l", "--", `\;`},
		}, got)
	})

	t.Run("cancelled context stops typing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(context.Context, *exec.RunOptions) (*exec.Result, error) {
				cancel()
				return &exec.Result{}, nil
			},
		}

		err := NewTmux(mockExec, "s").Type(ctx, "abc", 1)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Len(t, mockExec.RunCalls(), 1)
	})
}

func TestTmux_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("kills session", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(_ context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				assert.Equal(t, []string{"kill-session", "-t", "cwb-run"}, opts.Args)
				return &exec.Result{}, nil
			},
		}
		assert.NoError(t, NewTmux(mockExec, "cwb-run").Close(ctx))
	})

	t.Run("already gone", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(context.Context, *exec.RunOptions) (*exec.Result, error) {
				return &exec.Result{Stderr: []byte("no session found")}, errors.New("exit 1")
			},
		}
		assert.NoError(t, NewTmux(mockExec, "cwb-run").Close(ctx))
	})

	t.Run("kill failure", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(context.Context, *exec.RunOptions) (*exec.Result, error) {
				return &exec.Result{Stderr: []byte("boom")}, errors.New("exit 1")
			},
		}
		assert.Error(t, NewTmux(mockExec, "cwb-run").Close(ctx))
	})
}

func TestLiteralArg(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a;", `a\;`},
		{";", `\;`},
		{"a;b", "a;b"},
		{`a\;`, `a\\;`},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, literalArg(tt.in), tt.in)
	}
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("parses names", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(_ context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				assert.Equal(t, []string{"list-sessions", "-F", "#{session_name}"}, opts.Args)
				return &exec.Result{Stdout: []byte("cwb-a\n\n  cwb-b  \n")}, nil
			},
		}

		sessions, err := ListSessions(ctx, mockExec)
		require.NoError(t, err)
		assert.Equal(t, []string{"cwb-a", "cwb-b"}, sessions)
	})

	t.Run("no server", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(context.Context, *exec.RunOptions) (*exec.Result, error) { return noServer() },
		}

		sessions, err := ListSessions(ctx, mockExec)
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})
}
