// Command cwb drives a code editor with synthetic input to write example
// snippets into uniquely named files.
package main

import (
	"os"

	"github.com/jmgilman/codeweaver/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
