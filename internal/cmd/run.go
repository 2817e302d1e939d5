package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmgilman/codeweaver/internal/bot"
	"github.com/jmgilman/codeweaver/internal/config"
	"github.com/jmgilman/codeweaver/internal/editor"
	"github.com/jmgilman/codeweaver/internal/history"
	"github.com/jmgilman/codeweaver/internal/input"
	"github.com/jmgilman/codeweaver/internal/logging"
	"github.com/jmgilman/codeweaver/internal/names"
	"github.com/jmgilman/codeweaver/internal/prompt"
	"github.com/jmgilman/codeweaver/internal/slogger"
	"github.com/jmgilman/codeweaver/internal/spinner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the editor and write snippets until the run ends",
	Long: `Launch the editor and repeatedly write example snippets into new files.

Each attempt opens a new file, types a snippet, saves it under a unique name in
the output directory and checks that the file exists. The run ends when its
duration elapses, after too many consecutive failures, when --count attempts
have been made, or on Ctrl-C.

The keyboard is driven for the whole run. With the xdotool backend, keep the
editor window focused and do not type while the run is active. The tmux backend
runs a terminal editor in a detached session instead; watch it with
'cwb attach'.

Output is logged to a per-run file; see 'cwb logs'.`,
	Example: `  # Run for the configured duration with VS Code
  cwb run

  # Two hours, without the confirmation prompt
  cwb run --hours 2 --yes

  # Drive neovim inside tmux
  cwb run --backend tmux --editor-args "clean"

  # Show which files would be written, without touching the keyboard
  cwb run --dry-run --count 5`,
	Args: cobra.NoArgs,
	RunE: runRunCmd,
}

// runFlags holds parsed flags for the run command.
type runFlags struct {
	hours      float64
	backend    string
	editorArgs string
	output     string
	name       string
	count      int
	yes        bool
	noLaunch   bool
	dryRun     bool
}

// parseRunFlags extracts and validates flags, filling defaults from cfg.
func parseRunFlags(cmd *cobra.Command, cfg *config.Config) (*runFlags, error) {
	f := cmd.Flags()
	rf := &runFlags{}
	var err error

	if rf.hours, err = f.GetFloat64("hours"); err != nil {
		return nil, fmt.Errorf("get hours flag: %w", err)
	}
	if rf.backend, err = f.GetString("backend"); err != nil {
		return nil, fmt.Errorf("get backend flag: %w", err)
	}
	if rf.editorArgs, err = f.GetString("editor-args"); err != nil {
		return nil, fmt.Errorf("get editor-args flag: %w", err)
	}
	if rf.output, err = f.GetString("output"); err != nil {
		return nil, fmt.Errorf("get output flag: %w", err)
	}
	if rf.name, err = f.GetString("name"); err != nil {
		return nil, fmt.Errorf("get name flag: %w", err)
	}
	if rf.count, err = f.GetInt("count"); err != nil {
		return nil, fmt.Errorf("get count flag: %w", err)
	}
	if rf.yes, err = f.GetBool("yes"); err != nil {
		return nil, fmt.Errorf("get yes flag: %w", err)
	}
	if rf.noLaunch, err = f.GetBool("no-launch"); err != nil {
		return nil, fmt.Errorf("get no-launch flag: %w", err)
	}
	if rf.dryRun, err = f.GetBool("dry-run"); err != nil {
		return nil, fmt.Errorf("get dry-run flag: %w", err)
	}

	if !f.Changed("hours") {
		rf.hours = cfg.Run.Hours
	}
	if rf.backend == "" {
		rf.backend = cfg.Input.Backend
	}
	if rf.output == "" {
		rf.output = cfg.Output.Dir
	}

	switch {
	case rf.hours <= 0:
		return nil, fmt.Errorf("--hours must be positive, got %g", rf.hours)
	case !config.IsValidBackend(rf.backend):
		return nil, fmt.Errorf("invalid backend %q (valid: %s)", rf.backend, formatList(config.ValidBackendNames()))
	case rf.count < 0:
		return nil, fmt.Errorf("--count must not be negative, got %d", rf.count)
	case rf.dryRun && rf.count == 0:
		return nil, errors.New("--dry-run requires --count")
	}

	if rf.name != "" {
		if err := names.ValidateRunName(rf.name); err != nil {
			return nil, fmt.Errorf("--name %q: %w", rf.name, err)
		}
	}

	return rf, nil
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig(cmd)
	if err != nil {
		return err
	}

	rf, err := parseRunFlags(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	duration := config.SafeRuntime(rf.hours)
	if duration != time.Duration(rf.hours*float64(time.Hour)) {
		slogger.L(ctx).Warn("run duration clamped", "requested_hours", rf.hours, "duration", duration)
	}

	pm := logging.NewPathManager(cfg.Storage.Logs)
	run := rf.name
	if run == "" {
		if run, err = names.UniqueRunName(pm.LogExists, 0); err != nil {
			return err
		}
	}

	session := cfg.Input.TmuxTarget
	if session == "" {
		if session, err = input.SessionName(run); err != nil {
			return err
		}
	}

	if rf.dryRun {
		return dryRun(ctx, cmd.OutOrStdout(), cfg, rf, run, duration)
	}

	if !rf.yes {
		if err := confirmRun(PrompterFromContext(ctx), run, rf, duration); err != nil {
			return err
		}
	}

	logPath, err := pm.EnsureRunLog(run)
	if err != nil {
		return err
	}

	// The spinner owns the terminal's stderr; logs then only go to the file.
	useSpinner := spinner.Enabled(os.Stderr)
	var console io.Writer = os.Stderr
	if useSpinner {
		console = io.Discard
	}

	writers, err := logging.NewRunWriters(os.Stdout, console, logPath)
	if err != nil {
		return err
	}
	defer writers.Close()

	log := slogger.New(slogger.Config{
		Verbosity:  max(VerbosityFromContext(ctx), 1),
		Output:     writers.Stderr,
		Timestamps: true,
	})
	ctx = slogger.WithLogger(ctx, log)

	driver, err := input.New(rf.backend, ExecutorFromContext(ctx), session, input.WithPaneLog(pm.PaneLogPath(run)))
	if err != nil {
		return err
	}

	runner, launcher, err := buildRunner(cfg, rf, driver)
	if err != nil {
		return err
	}

	if err := driver.Check(ctx); err != nil {
		return fmt.Errorf("check %s backend: %w", rf.backend, err)
	}
	if err := runner.Prepare(rf.output); err != nil {
		return err
	}

	if !rf.noLaunch {
		if err := launcher.Launch(ctx); err != nil {
			return err
		}
	}
	if rf.backend == input.BackendTmux && cfg.Input.TmuxTarget == "" {
		defer func() {
			if err := driver.Close(context.WithoutCancel(ctx)); err != nil {
				log.Warn("failed to close tmux session", "session", session, "error", err)
			}
		}()
	}

	opts := bot.Options{
		Run:                    run,
		Duration:               duration,
		MaxConsecutiveFailures: cfg.Run.MaxConsecutiveFailures,
		Limit:                  rf.count,
	}

	var sp *spinner.Spinner
	spinDone := make(chan struct{})
	if useSpinner {
		sp = spinner.New(os.Stderr, runTitle(run, bot.Stats{}, duration, 0))
		go func() {
			defer close(spinDone)
			if err := sp.Start(); err != nil {
				log.Debug("spinner stopped", "error", err)
			}
		}()
		opts.OnAttempt = func(res bot.Result, st bot.Stats) {
			sp.SetTitle(runTitle(run, st, duration, st.Elapsed(time.Now())))
			fmt.Fprintln(sp.Writer(), attemptLine(res))
		}
	} else {
		close(spinDone)
	}

	stats, runErr := runner.Run(ctx, opts)
	if sp != nil {
		sp.Stop()
	}
	<-spinDone

	printSummary(writers.Stdout, run, stats, rf.output, logPath)
	return runErr
}

// buildRunner wires the name generator, snippet catalog, history store and
// editor launcher around driver.
func buildRunner(cfg *config.Config, rf *runFlags, driver input.Driver) (*bot.Runner, *editor.Launcher, error) {
	gen, err := newGenerator(cfg, rf.output)
	if err != nil {
		return nil, nil, err
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}

	editorArgs, err := editorFlags(cfg, rf.editorArgs)
	if err != nil {
		return nil, nil, err
	}

	launcher, err := editor.New(driver, editor.Options{
		Executable:   cfg.Editor.Executable,
		Flags:        editorArgs,
		Delay:        cfg.Timing.Launch,
		TypeInterval: cfg.Input.TypeInterval,
	})
	if err != nil {
		return nil, nil, err
	}

	var store history.Store
	if !rf.dryRun {
		store = history.NewStore(cfg.Storage.History)
	}

	runner := bot.NewRunner(driver, gen, catalog, store, bot.RunnerConfig{
		Timing:           timing(cfg),
		MaxPathLength:    cfg.Output.MaxPathLength,
		MaxContentLength: cfg.Content.MaxLength,
		DryRun:           rf.dryRun,
	})
	return runner, launcher, nil
}

// dryRun picks snippets and names files without driving any input.
func dryRun(ctx context.Context, out io.Writer, cfg *config.Config, rf *runFlags, run string, duration time.Duration) error {
	driver, err := input.New(rf.backend, ExecutorFromContext(ctx), "")
	if err != nil {
		return err
	}

	runner, launcher, err := buildRunner(cfg, rf, driver)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Dry run %s: would launch %v\n", run, launcher.Command())
	stats, err := runner.Run(ctx, bot.Options{
		Run:      run,
		Duration: duration,
		Limit:    rf.count,
		OnAttempt: func(res bot.Result, _ bot.Stats) {
			if res.Err != nil {
				fmt.Fprintf(out, "  skip %s: %v\n", res.Snippet, res.Err)
				return
			}
			fmt.Fprintf(out, "  %s <- %s\n", res.Path, res.Snippet)
		},
	})
	fmt.Fprintf(out, "%d of %d attempts named (%s)\n", stats.Succeeded, stats.Attempts, stats.StopReason)
	return err
}

// confirmRun asks before taking over the keyboard.
func confirmRun(p prompt.Prompter, run string, rf *runFlags, duration time.Duration) error {
	description := fmt.Sprintf("Writes snippets into %s for %s using %s.\n"+
		"Keyboard input is automated until the run ends; press Ctrl-C to stop.",
		rf.output, duration.Round(time.Minute), rf.backend)

	ok, err := p.Confirm(fmt.Sprintf("Start run %s?", run), description)
	switch {
	case errors.Is(err, prompt.ErrNotInteractive):
		return errors.New("confirmation needs a terminal (pass --yes to skip it)")
	case err != nil:
		return err
	case !ok:
		return prompt.ErrCanceled
	}
	return nil
}

// runTitle summarizes progress for the spinner.
func runTitle(run string, st bot.Stats, duration, elapsed time.Duration) string {
	left := max(duration-elapsed, 0).Round(time.Minute)
	return fmt.Sprintf("%s · %d ok · %d failed · %s left", run, st.Succeeded, st.Failed, left)
}

// attemptLine describes one attempt on a single line.
func attemptLine(res bot.Result) string {
	switch {
	case res.Err != nil && res.Name != "":
		return fmt.Sprintf("%s %s: %v", res.Status, res.Name, res.Err)
	case res.Err != nil:
		return fmt.Sprintf("%s %s: %v", res.Status, res.Snippet, res.Err)
	case res.Truncated:
		return fmt.Sprintf("%s %s (truncated)", res.Status, res.Name)
	default:
		return fmt.Sprintf("%s %s", res.Status, res.Name)
	}
}

func printSummary(w io.Writer, run string, st bot.Stats, output, logPath string) {
	fmt.Fprintf(w, "Run %s finished: %s\n", run, st.StopReason)
	fmt.Fprintf(w, "  attempts: %d\n", st.Attempts)
	fmt.Fprintf(w, "  created:  %d\n", st.Succeeded)
	fmt.Fprintf(w, "  failed:   %d\n", st.Failed)
	fmt.Fprintf(w, "  success:  %.1f%%\n", st.SuccessRate()*100)
	fmt.Fprintf(w, "  elapsed:  %s\n", st.Elapsed(st.Finished).Round(time.Second))
	fmt.Fprintf(w, "  output:   %s\n", output)
	fmt.Fprintf(w, "  log:      %s\n", logPath)
}

// addRunFlags registers the run command's flags.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("hours", 0, "run length in hours, clamped to 0.1-24 (default run.hours)")
	cmd.Flags().StringP("backend", "b", "", "input backend: xdotool or tmux (default input.backend)")
	cmd.Flags().String("editor-args", "", `extra editor flags, e.g. "new-window user-data-dir=/tmp/cw"`)
	cmd.Flags().StringP("output", "o", "", "output directory (default output.dir)")
	cmd.Flags().String("name", "", "override the generated run name")
	cmd.Flags().IntP("count", "n", 0, "stop after this many attempts")
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().Bool("no-launch", false, "use an editor that is already running")
	cmd.Flags().Bool("dry-run", false, "pick snippets and names without sending input")
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}
