package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmgilman/codeweaver/internal/history"
	"github.com/jmgilman/codeweaver/internal/logging"
	"github.com/jmgilman/codeweaver/internal/prompt"
	"github.com/jmgilman/codeweaver/internal/slogger"
)

// shortIDLength is how much of an entry ID the table shows.
const shortIDLength = 8

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show files written by previous runs",
	Long: `Show the outcome of every attempt recorded by previous runs.

Each attempt is stored with its snippet, file name, path and status:
created (the file was found after saving), missing (the input was sent but no
file appeared) or failed (the attempt was aborted).`,
	Example: `  # All recorded attempts
  cwb history

  # Attempts of one run that did not produce a file
  cwb history --run happy_turing --status missing

  # Per-run totals
  cwb history --runs

  # Forget one run, including its logs
  cwb history --clear --run happy_turing`,
	Args: cobra.NoArgs,
	RunE: runHistoryCmd,
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig(cmd)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	run, err := f.GetString("run")
	if err != nil {
		return fmt.Errorf("get run flag: %w", err)
	}
	statusFlag, err := f.GetString("status")
	if err != nil {
		return fmt.Errorf("get status flag: %w", err)
	}
	limit, err := f.GetInt("limit")
	if err != nil {
		return fmt.Errorf("get limit flag: %w", err)
	}
	runs, err := f.GetBool("runs")
	if err != nil {
		return fmt.Errorf("get runs flag: %w", err)
	}
	clearFlag, err := f.GetBool("clear")
	if err != nil {
		return fmt.Errorf("get clear flag: %w", err)
	}
	yes, err := f.GetBool("yes")
	if err != nil {
		return fmt.Errorf("get yes flag: %w", err)
	}

	status, err := history.ParseStatus(statusFlag)
	if err != nil {
		return err
	}

	store := history.NewStore(cfg.Storage.History)
	out := cmd.OutOrStdout()

	switch {
	case clearFlag:
		pm := logging.NewPathManager(cfg.Storage.Logs)
		return clearHistory(cmd, store, pm, PrompterFromContext(cmd.Context()), run, yes)
	case runs:
		summaries, err := store.Runs(cmd.Context())
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(summaries) == 0 {
			slogger.L(cmd.Context()).Info("no runs recorded")
			return nil
		}
		return writeRunTable(out, summaries)
	default:
		entries, err := store.List(cmd.Context(), history.ListFilter{Run: run, Status: status, Limit: limit})
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
		if len(entries) == 0 {
			slogger.L(cmd.Context()).Info("no history entries found", "run", run, "status", status)
			return nil
		}
		return writeHistoryTable(out, entries)
	}
}

// clearHistory removes the entries and logs of run, or of every run when
// run is empty. Clearing everything asks first unless yes is set.
func clearHistory(cmd *cobra.Command, store history.Store, pm *logging.PathManager, p prompt.Prompter, run string, yes bool) error {
	ctx := cmd.Context()

	if run == "" && !yes {
		ok, err := p.Confirm("Clear all history?", "Removes every recorded attempt and all run logs.")
		switch {
		case errors.Is(err, prompt.ErrNotInteractive):
			return errors.New("confirmation needs a terminal (pass --yes to skip it)")
		case err != nil:
			return err
		case !ok:
			return prompt.ErrCanceled
		}
	}

	n, err := store.Clear(ctx, run)
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	var logRuns []string
	if run != "" {
		logRuns = []string{run}
	} else {
		logs, err := pm.ListRuns()
		if err != nil {
			return err
		}
		for _, l := range logs {
			logRuns = append(logRuns, l.Run)
		}
	}
	for _, r := range logRuns {
		if err := pm.RemoveRunLogs(r); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries and %d run logs\n", n, len(logRuns))
	return nil
}

func writeHistoryTable(out io.Writer, entries []history.Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tRUN\tSTATUS\tSNIPPET\tFILE\tCREATED"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		id := e.ID
		if len(id) > shortIDLength {
			id = id[:shortIDLength]
		}
		file := e.Name
		if file == "" {
			file = "-"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			id, e.Run, e.Status, e.Snippet, file, formatTimeAgo(e.CreatedAt),
		); err != nil {
			return fmt.Errorf("write entry: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func writeRunTable(out io.Writer, runs []history.RunSummary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "RUN\tCREATED\tMISSING\tFAILED\tTOTAL\tLAST"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range runs {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n",
			r.Run, r.Created, r.Missing, r.Failed, r.Total(), formatTimeAgo(r.Last),
		); err != nil {
			return fmt.Errorf("write run: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("run", "", "only show this run")
	historyCmd.Flags().String("status", "", "only show this status (created, missing, failed)")
	historyCmd.Flags().IntP("limit", "n", 0, "show at most this many of the newest entries")
	historyCmd.Flags().Bool("runs", false, "show per-run totals instead of entries")
	historyCmd.Flags().Bool("clear", false, "delete entries and logs (all runs unless --run is given)")
	historyCmd.Flags().BoolP("yes", "y", false, "do not ask before clearing everything")
}
