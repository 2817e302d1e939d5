package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/codeweaver/internal/config"
	"github.com/jmgilman/codeweaver/internal/exec"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View and modify configuration",
	Long: `View and modify CodeWeaver configuration.

With no arguments, displays all configuration.
With one argument, displays the value for the specified key.
With two arguments, sets the value for the specified key.`,
	Example: `  # Show all config
  cwb config

  # Show value for a specific key
  cwb config input.backend

  # Set a value
  cwb config editor.executable /usr/bin/codium

  # Open config file in editor
  cwb config --edit`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		editFlag, err := cmd.Flags().GetBool("edit")
		if err != nil {
			return fmt.Errorf("get edit flag: %w", err)
		}

		loader, err := config.NewLoader()
		if err != nil {
			return fmt.Errorf("init config loader: %w", err)
		}

		if editFlag {
			return runEdit(cmd, ExecutorFromContext(cmd.Context()), loader)
		}

		out := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			return runShowAll(out, loader)
		case 1:
			return runShowKey(out, loader, args[0])
		default:
			return runSetKey(out, loader, args[0], args[1])
		}
	},
}

func runEdit(cmd *cobra.Command, e exec.Executor, loader *config.Loader) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return config.ErrNoEditor
	}

	// Load creates the file if it is missing
	if _, err := loader.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	_, err := e.Run(cmd.Context(), &exec.RunOptions{
		Name:   editor,
		Args:   []string{loader.Path()},
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("run %s: %w", editor, err)
	}
	return nil
}

func runShowAll(out io.Writer, loader *config.Loader) error {
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

func runShowKey(out io.Writer, loader *config.Loader, key string) error {
	if err := config.ValidateKey(key); err != nil {
		return err
	}

	if _, err := loader.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	value, err := loader.Get(key)
	if err != nil {
		return err
	}

	switch v := value.(type) {
	case nil:
		fmt.Fprintln(out)
	case string:
		fmt.Fprintln(out, v)
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal value: %w", err)
		}
		fmt.Fprint(out, string(data))
	default:
		fmt.Fprintln(out, value)
	}

	return nil
}

func runSetKey(out io.Writer, loader *config.Loader, key, value string) error {
	if _, err := loader.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := loader.Set(key, value); err != nil {
		return err
	}

	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("edit", false, "open config file in $EDITOR")
}
