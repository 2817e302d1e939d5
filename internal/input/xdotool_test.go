package input

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/codeweaver/internal/exec"
	"github.com/jmgilman/codeweaver/internal/exec/mocks"
)

func okRun(context.Context, *exec.RunOptions) (*exec.Result, error) {
	return &exec.Result{}, nil
}

func TestXdotool_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("available", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			LookPathFunc: func(name string) (string, error) {
				assert.Equal(t, "xdotool", name)
				return "/usr/bin/xdotool", nil
			},
			RunFunc: func(_ context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				assert.Equal(t, []string{"getmouselocation"}, opts.Args)
				return &exec.Result{Stdout: []byte("x:1 y:2")}, nil
			},
		}

		require.NoError(t, NewXdotool(mockExec).Check(ctx))
	})

	t.Run("not installed", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			LookPathFunc: func(string) (string, error) {
				return "", errors.New("not found")
			},
		}

		err := NewXdotool(mockExec).Check(ctx)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Empty(t, mockExec.RunCalls())
	})

	t.Run("no display", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			LookPathFunc: func(string) (string, error) { return "/usr/bin/xdotool", nil },
			RunFunc: func(context.Context, *exec.RunOptions) (*exec.Result, error) {
				return &exec.Result{Stderr: []byte("Error: Can't open display: (null)"), ExitCode: 1}, errors.New("exit 1")
			},
		}

		err := NewXdotool(mockExec).Check(ctx)
		require.ErrorIs(t, err, ErrUnavailable)
		assert.Contains(t, err.Error(), "Can't open display")
	})
}

func TestXdotool_TypeCancelled(t *testing.T) {
	mockExec := &mocks.ExecutorMock{
		RunFunc: func(ctx context.Context, _ *exec.RunOptions) (*exec.Result, error) {
			return &exec.Result{ExitCode: -1}, ctx.Err()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewXdotool(mockExec).Type(ctx, "print(1)", 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestXdotool_Launch(t *testing.T) {
	ctx := context.Background()

	t.Run("starts detached", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			StartFunc: func(_ context.Context, opts *exec.RunOptions) (*exec.Process, error) {
				assert.Equal(t, "code", opts.Name)
				assert.Equal(t, []string{"--new-window"}, opts.Args)
				return &exec.Process{PID: 42}, nil
			},
		}

		require.NoError(t, NewXdotool(mockExec).Launch(ctx, []string{"code", "--new-window"}))
		assert.Len(t, mockExec.StartCalls(), 1)
	})

	t.Run("start failure", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			StartFunc: func(context.Context, *exec.RunOptions) (*exec.Process, error) {
				return nil, errors.New("no such file")
			},
		}

		err := NewXdotool(mockExec).Launch(ctx, []string{"code"})
		assert.ErrorIs(t, err, ErrLaunchFailed)
	})

	t.Run("empty command", func(t *testing.T) {
		err := NewXdotool(&mocks.ExecutorMock{}).Launch(ctx, nil)
		assert.ErrorIs(t, err, ErrLaunchFailed)
	})
}

func TestXdotool_Keys(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(Driver) error
		want []string
	}{
		{"new file", func(d Driver) error { return d.Hotkey(ctx, "ctrl", "n") }, []string{"key", "--clearmodifiers", "ctrl+n"}},
		{"save as", func(d Driver) error { return d.Hotkey(ctx, "ctrl", "shift", "s") }, []string{"key", "--clearmodifiers", "ctrl+shift+s"}},
		{"enter", func(d Driver) error { return d.Press(ctx, "enter") }, []string{"key", "--clearmodifiers", "Return"}},
		{"escape alias", func(d Driver) error { return d.Press(ctx, "esc") }, []string{"key", "--clearmodifiers", "Escape"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockExec := &mocks.ExecutorMock{RunFunc: okRun}

			require.NoError(t, tt.call(NewXdotool(mockExec)))
			require.Len(t, mockExec.RunCalls(), 1)
			assert.Equal(t, "xdotool", mockExec.RunCalls()[0].Opts.Name)
			assert.Equal(t, tt.want, mockExec.RunCalls()[0].Opts.Args)
		})
	}

	t.Run("unknown key never runs xdotool", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{}

		err := NewXdotool(mockExec).Hotkey(ctx, "ctrl", "hyper")
		assert.ErrorIs(t, err, ErrUnknownKey)
		assert.Empty(t, mockExec.RunCalls())
	})
}

func TestXdotool_Type(t *testing.T) {
	ctx := context.Background()

	t.Run("types via stdin with delay", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(_ context.Context, opts *exec.RunOptions) (*exec.Result, error) {
				assert.Equal(t, []string{"type", "--clearmodifiers", "--delay", "30", "--file", "-"}, opts.Args)
				require.NotNil(t, opts.Stdin)
				data, err := io.ReadAll(opts.Stdin)
				require.NoError(t, err)
				assert.Equal(t, "--print(len(x))\n", string(data))
				return &exec.Result{}, nil
			},
		}

		err := NewXdotool(mockExec).Type(ctx, "--print(len(x))\n", 30*time.Millisecond)
		require.NoError(t, err)
		assert.Len(t, mockExec.RunCalls(), 1)
	})

	t.Run("empty text is a no-op", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{}
		require.NoError(t, NewXdotool(mockExec).Type(ctx, "", time.Millisecond))
		assert.Empty(t, mockExec.RunCalls())
	})

	t.Run("surfaces stderr", func(t *testing.T) {
		mockExec := &mocks.ExecutorMock{
			RunFunc: func(context.Context, *exec.RunOptions) (*exec.Result, error) {
				return &exec.Result{Stderr: []byte("XGetWindowProperty failed"), ExitCode: 1}, errors.New("exit 1")
			},
		}

		err := NewXdotool(mockExec).Type(ctx, "x", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "XGetWindowProperty failed")
	})
}

func TestXdotool_Close(t *testing.T) {
	assert.NoError(t, NewXdotool(&mocks.ExecutorMock{}).Close(context.Background()))
}
