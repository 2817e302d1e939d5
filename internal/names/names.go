// Package names generates file names for typed snippets and Docker-style
// identifiers for runs.
package names

import (
	"errors"
	"fmt"

	"github.com/docker/docker/pkg/namesgenerator"
)

// MaxRunNameLength bounds run names, which appear in log file names and tmux
// session targets.
const MaxRunNameLength = 64

const defaultRunNameAttempts = 100

var (
	ErrInvalidRunName = errors.New("invalid run name")
	ErrRunNamesTaken  = errors.New("no free run name")
)

// ExistsFn reports whether a run name is already in use, typically because
// its log file exists.
type ExistsFn func(run string) bool

// RunName returns a random adjective_surname run identifier such as
// "focused_turing".
func RunName() string {
	return namesgenerator.GetRandomName(0)
}

// UniqueRunName draws run names until exists reports one as free.
// attempts <= 0 uses a default of 100 draws.
func UniqueRunName(exists ExistsFn, attempts int) (string, error) {
	if attempts <= 0 {
		attempts = defaultRunNameAttempts
	}

	for range attempts {
		if run := RunName(); !exists(run) {
			return run, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrRunNamesTaken, attempts)
}

// ValidateRunName accepts names made of ASCII letters, digits and
// underscores, the characters safe in both log file names and tmux targets.
func ValidateRunName(run string) error {
	if run == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidRunName)
	}
	if len(run) > MaxRunNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidRunName, MaxRunNameLength)
	}
	for _, r := range run {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return fmt.Errorf("%w: %q is not allowed (use letters, digits and _)", ErrInvalidRunName, r)
		}
	}
	return nil
}
