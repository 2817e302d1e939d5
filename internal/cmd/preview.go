package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmgilman/codeweaver/internal/snippets"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "List the snippets a run can type",
	Long: `List the snippets a run picks from: the built-in catalog plus any loaded
from content.snippets.

With --show, choose one snippet and print the exact content that would be typed.`,
	Example: `  # Numbered list of snippets
  cwb preview

  # Print the rendered content of one snippet
  cwb preview --show`,
	Args: cobra.NoArgs,
	RunE: runPreviewCmd,
}

func runPreviewCmd(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig(cmd)
	if err != nil {
		return err
	}

	show, err := cmd.Flags().GetBool("show")
	if err != nil {
		return fmt.Errorf("get show flag: %w", err)
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !show {
		writeSnippetList(out, catalog.All())
		return nil
	}

	all := catalog.All()
	options := make([]string, len(all))
	for i, s := range all {
		options[i] = s.Name
	}

	idx, err := PrompterFromContext(cmd.Context()).Choice("Snippet", options)
	if err != nil {
		return err
	}

	s, err := catalog.Get(idx)
	if err != nil {
		return err
	}

	content, truncated := snippets.Render(s, time.Now(), cfg.Content.MaxLength)
	fmt.Fprintln(out, content)
	if truncated {
		fmt.Fprintf(out, "(truncated to %d characters)\n", cfg.Content.MaxLength)
	}
	return nil
}

func writeSnippetList(out io.Writer, all []snippets.Snippet) {
	fmt.Fprintf(out, "%d snippets:\n", len(all))
	for i, s := range all {
		fmt.Fprintf(out, "%3d. %s - %s\n", i+1, s.Name, s.Description)
	}
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().Bool("show", false, "choose a snippet and print its rendered content")
}
