package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/codeweaver/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `Display the version, commit, and build date of CodeWeaver.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("get short flag: %w", err)
		}

		out := cmd.OutOrStdout()
		if short {
			fmt.Fprintln(out, version.Version)
			return nil
		}
		fmt.Fprintln(out, version.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("short", false, "print only the version number")
}
