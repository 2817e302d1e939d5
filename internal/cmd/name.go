package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/codeweaver/internal/names"
	"github.com/jmgilman/codeweaver/internal/slogger"
)

var nameCmd = &cobra.Command{
	Use:   "name <label>...",
	Short: "Print the file names generated for labels",
	Long: `Print the file name and path a run would use for each label.

All labels share one generator, so repeated labels get distinct names in the
order given. Labels that cannot be turned into a name are reported and skipped.`,
	Example: `  # Names for two snippets
  cwb name "len()" "sorted()"

  # Into another directory
  cwb name --dir /tmp/out "dict.get()"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNameCmd,
}

func runNameCmd(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig(cmd)
	if err != nil {
		return err
	}

	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("get dir flag: %w", err)
	}
	if dir == "" {
		dir = cfg.Output.Dir
	}

	gen, err := newGenerator(cfg, dir)
	if err != nil {
		return err
	}

	log := slogger.L(cmd.Context())
	out := cmd.OutOrStdout()
	var failed int

	for _, label := range args {
		name, path, err := gen.Next(label)
		switch {
		case errors.Is(err, names.ErrInvalidInput):
			log.Warn("skipping label", "error", err)
			failed++
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "%s\t%s\n", name, path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d labels could not be named", failed, len(args))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(nameCmd)

	nameCmd.Flags().String("dir", "", "output directory (default output.dir)")
}
