// Command shelter keeps the Safe Shelter resident and service records.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/shelter/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
