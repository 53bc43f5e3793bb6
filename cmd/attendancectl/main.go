package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"attendance_backend/internals/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(cli.GetExitCode(err))
	}
}
