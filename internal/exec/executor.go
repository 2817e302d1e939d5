package exec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

type executor struct{}

// New returns a new Executor that uses os/exec.
func New() Executor {
	return &executor{}
}

func (e *executor) Run(ctx context.Context, opts *RunOptions) (*Result, error) {
	// G204: the caller validates the command and arguments.
	cmd := exec.CommandContext(ctx, opts.Name, opts.Args...) //nolint:gosec // Intentional subprocess execution
	configure(cmd, opts)

	var stdoutBuf, stderrBuf bytes.Buffer

	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	} else {
		cmd.Stdout = &stdoutBuf
	}

	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()

	result := &Result{
		ExitCode: cmd.ProcessState.ExitCode(),
	}
	if opts.Stdout == nil {
		result.Stdout = stdoutBuf.Bytes()
	}
	if opts.Stderr == nil {
		result.Stderr = stderrBuf.Bytes()
	}

	return result, err
}

func (e *executor) Start(ctx context.Context, opts *RunOptions) (*Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Not bound to ctx: the started process outlives the caller.
	cmd := exec.Command(opts.Name, opts.Args...) //nolint:gosec // Intentional subprocess execution
	configure(cmd, opts)

	cmd.Stdout = io.Discard
	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	}
	cmd.Stderr = io.Discard
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", opts.Name, err)
	}

	proc := &Process{PID: cmd.Process.Pid}

	// Reap the child so it doesn't linger as a zombie.
	go func() { _ = cmd.Wait() }()

	return proc, nil
}

func (e *executor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func configure(cmd *exec.Cmd, opts *RunOptions) {
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}
}
