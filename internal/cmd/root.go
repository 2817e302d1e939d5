// Package cmd implements the CodeWeaver CLI commands using Cobra.
// The run command drives an editor with synthetic input; the rest inspect
// snippets, names, history, logs and configuration.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmgilman/codeweaver/internal/config"
	"github.com/jmgilman/codeweaver/internal/exec"
	"github.com/jmgilman/codeweaver/internal/prompt"
	"github.com/jmgilman/codeweaver/internal/slogger"
)

// appConfig holds the loaded application configuration.
var appConfig *config.Config

// configLoader reads and writes the configuration file.
var configLoader *config.Loader

// configErr records why the configuration could not be loaded.
var configErr error

var rootCmd = &cobra.Command{
	Use:   "cwb",
	Short: "Type example code into an editor, one file at a time",
	Long: `CodeWeaver drives a code editor with synthetic keyboard input. Each
iteration it opens a new file, types an example snippet, and saves it under a
unique, validated file name.

Input is delivered with xdotool to a desktop editor or with tmux send-keys to
a terminal editor running in a detached session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, err := cmd.Flags().GetCount("verbose")
		if err != nil {
			return fmt.Errorf("get verbose flag: %w", err)
		}

		logger := slogger.New(slogger.Config{Verbosity: verbosity})
		if configErr != nil {
			logger.Warn("configuration not loaded", "error", configErr)
		}

		ctx := cmd.Context()
		ctx = slogger.WithLogger(ctx, logger)
		ctx = WithVerbosity(ctx, verbosity)
		ctx = WithConfig(ctx, appConfig)
		ctx = WithLoader(ctx, configLoader)
		ctx = WithExecutor(ctx, exec.New())
		ctx = WithPrompter(ctx, prompt.New())
		cmd.SetContext(ctx)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
}

func initConfig() {
	loader, err := config.NewLoader()
	if err != nil {
		configErr = fmt.Errorf("initialize config: %w", err)
		return
	}

	cfg, err := loader.Load()
	if err != nil {
		configErr = fmt.Errorf("load config: %w", err)
		return
	}

	if err := cfg.Validate(); err != nil {
		configErr = err
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	appConfig = cfg
	configLoader = loader
}

// requireConfig returns the loaded configuration or the reason it is missing.
func requireConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := ConfigFromContext(cmd.Context())
	if cfg == nil {
		if configErr != nil {
			return nil, configErr
		}
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}

// formatList joins strings with commas and "and" before the last item.
func formatList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
