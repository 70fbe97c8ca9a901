// Command recordcompare steps through versions of MongoDB records in an
// external diff tool.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/recordcompare/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
