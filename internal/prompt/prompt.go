// Package prompt provides user interaction primitives using charmbracelet/huh.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Sentinel errors for prompts.
var (
	ErrCanceled       = errors.New("canceled by user")
	ErrNoOptions      = errors.New("no options provided")
	ErrNotInteractive = errors.New("stdin is not a terminal")
)

// Prompter abstracts user interaction for testability.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/prompter.go . Prompter
type Prompter interface {
	// Print outputs text to the user.
	Print(message string)

	// Confirm prompts for yes/no confirmation.
	Confirm(title, description string) (bool, error)

	// Choice prompts user to select from options, returns 0-based index.
	Choice(title string, options []string) (int, error)
}

// HuhPrompter implements Prompter using charmbracelet/huh for interactive forms.
type HuhPrompter struct {
	out         io.Writer
	interactive func() bool
}

// New creates a HuhPrompter printing to stdout.
func New() *HuhPrompter {
	return &HuhPrompter{
		out: os.Stdout,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

func (p *HuhPrompter) Print(message string) {
	fmt.Fprintln(p.out, message)
}

// Confirm prompts for yes/no confirmation. It fails with ErrNotInteractive
// when there is no terminal to ask on.
func (p *HuhPrompter) Confirm(title, description string) (bool, error) {
	if !p.interactive() {
		return false, ErrNotInteractive
	}

	var confirmed bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Start").
		Negative("Cancel").
		Value(&confirmed).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCanceled
		}
		return false, fmt.Errorf("confirm prompt: %w", err)
	}

	return confirmed, nil
}

// Choice prompts user to select from options and returns the 0-based index.
// A single option is chosen without asking.
func (p *HuhPrompter) Choice(title string, options []string) (int, error) {
	switch {
	case len(options) == 0:
		return 0, ErrNoOptions
	case len(options) == 1:
		return 0, nil
	case !p.interactive():
		return 0, ErrNotInteractive
	}

	huhOptions := make([]huh.Option[int], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt, i)
	}

	var selected int
	err := huh.NewSelect[int]().
		Title(title).
		Options(huhOptions...).
		Value(&selected).
		Height(min(len(options)+2, 15)).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 0, ErrCanceled
		}
		return 0, fmt.Errorf("choice prompt: %w", err)
	}

	return selected, nil
}
