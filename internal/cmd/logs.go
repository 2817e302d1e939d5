package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmgilman/codeweaver/internal/logging"
	"github.com/jmgilman/codeweaver/internal/names"
)

// Default poll interval for following logs.
const defaultLogPollInterval = 100 * time.Millisecond

var logsCmd = &cobra.Command{
	Use:   "logs [run]",
	Short: "View the log of a run",
	Long: `View the log written by a run, by default the most recent one.

With --pane, shows the captured terminal output of the editor instead; this
only exists for runs that used the tmux backend.`,
	Example: `  # Last 100 lines of the latest run
  cwb logs

  # Follow a run in progress
  cwb logs happy_turing -f

  # Entire editor pane capture
  cwb logs happy_turing --pane --full

  # List runs that have logs
  cwb logs --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogsCmd,
}

func runLogsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig(cmd)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	follow, err := f.GetBool("follow")
	if err != nil {
		return fmt.Errorf("get follow flag: %w", err)
	}
	lines, err := f.GetInt("lines")
	if err != nil {
		return fmt.Errorf("get lines flag: %w", err)
	}
	full, err := f.GetBool("full")
	if err != nil {
		return fmt.Errorf("get full flag: %w", err)
	}
	pane, err := f.GetBool("pane")
	if err != nil {
		return fmt.Errorf("get pane flag: %w", err)
	}
	list, err := f.GetBool("list")
	if err != nil {
		return fmt.Errorf("get list flag: %w", err)
	}

	pm := logging.NewPathManager(cfg.Storage.Logs)
	out := cmd.OutOrStdout()

	if list {
		return listRunLogs(out, pm)
	}

	run, err := resolveLogRun(pm, args)
	if err != nil {
		return err
	}

	reader := logging.NewReader(pm)
	if pane {
		reader = logging.NewPaneReader(pm)
	} else if !pm.LogExists(run) {
		return fmt.Errorf("no log file found for run %s", run)
	}

	return outputLogs(cmd.Context(), out, reader, run, follow, lines, full)
}

// resolveLogRun returns the run named in args, or the latest run.
func resolveLogRun(pm *logging.PathManager, args []string) (string, error) {
	if len(args) == 1 {
		if err := names.ValidateRunName(args[0]); err != nil {
			return "", err
		}
		return args[0], nil
	}

	run, err := pm.Latest()
	if err != nil {
		return "", err
	}
	if run == "" {
		return "", errors.New("no run logs found (start a run with 'cwb run')")
	}
	return run, nil
}

func outputLogs(ctx context.Context, out io.Writer, reader *logging.Reader, run string, follow bool, lines int, full bool) error {
	if follow {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		err := reader.FollowWithHistory(ctx, run, out, lines, defaultLogPollInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	var logLines []string
	var err error
	if full {
		logLines, err = reader.ReadAll(run)
	} else {
		logLines, err = reader.ReadLastN(run, lines)
	}
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}

	for _, line := range logLines {
		fmt.Fprintln(out, line)
	}
	return nil
}

func listRunLogs(out io.Writer, pm *logging.PathManager) error {
	runs, err := pm.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No run logs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "RUN\tSIZE\tMODIFIED"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range runs {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", r.Run, formatSize(r.Size), formatTimeAgo(r.ModTime)); err != nil {
			return fmt.Errorf("write run: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().BoolP("follow", "f", false, "follow log output in real-time")
	logsCmd.Flags().IntP("lines", "n", logging.DefaultTailLines, "number of lines to show")
	logsCmd.Flags().Bool("full", false, "show the entire log")
	logsCmd.Flags().Bool("pane", false, "show the editor pane capture of a tmux run")
	logsCmd.Flags().BoolP("list", "l", false, "list runs that have logs")
}
