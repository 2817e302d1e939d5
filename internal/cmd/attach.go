package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/codeweaver/internal/exec"
	"github.com/jmgilman/codeweaver/internal/input"
)

var attachCmd = &cobra.Command{
	Use:   "attach [run]",
	Short: "Watch the editor of a tmux-backed run",
	Long: `Attach the terminal to the tmux session of a running tmux-backed run.

The session is attached read-only so stray keystrokes cannot disturb the bot.
Use --write to interact with the editor. Detach with the tmux prefix key
followed by d (default: Ctrl-B, d).

Without a run name, the only running session is used; if there are several
you are asked to choose.`,
	Example: `  # Watch the only running session
  cwb attach

  # Watch a specific run
  cwb attach happy_turing

  # Take over the keyboard
  cwb attach happy_turing --write`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAttachCmd,
}

func runAttachCmd(cmd *cobra.Command, args []string) error {
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("get write flag: %w", err)
	}

	e := ExecutorFromContext(cmd.Context())

	var session string
	if len(args) == 1 {
		if session, err = input.SessionName(args[0]); err != nil {
			return err
		}
	} else if session, err = chooseSession(cmd, e); err != nil {
		return err
	}

	err = input.NewTmux(e, session).Attach(cmd.Context(), !write)
	if errors.Is(err, input.ErrSessionNotFound) {
		return fmt.Errorf("no running session for run %q", input.ParseSessionName(session))
	}
	return err
}

// chooseSession returns the single running bot session, or asks which one.
func chooseSession(cmd *cobra.Command, e exec.Executor) (string, error) {
	all, err := input.ListSessions(cmd.Context(), e)
	if err != nil {
		return "", err
	}

	var sessions, runs []string
	for _, s := range all {
		if run := input.ParseSessionName(s); run != "" {
			sessions = append(sessions, s)
			runs = append(runs, run)
		}
	}
	if len(sessions) == 0 {
		return "", errors.New("no tmux runs in progress (start one with 'cwb run --backend tmux')")
	}
	if len(sessions) == 1 {
		return sessions[0], nil
	}

	idx, err := PrompterFromContext(cmd.Context()).Choice("Run", runs)
	if err != nil {
		return "", err
	}
	return sessions[idx], nil
}

func init() {
	rootCmd.AddCommand(attachCmd)

	attachCmd.Flags().BoolP("write", "w", false, "forward keystrokes to the editor")
}
