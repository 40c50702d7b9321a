// memstate reads the state described by a game configuration out of a running
// game process or a saved dump.
package main

import (
	"fmt"
	"os"

	"memstate/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
