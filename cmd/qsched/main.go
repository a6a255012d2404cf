// Command qsched schedules quantum programs against the control resources
// of a platform.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/qsched/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
