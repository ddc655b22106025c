// Command slidecast is the CLI for submitting and inspecting video
// generation jobs on a running slidecastd.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "slidecast: %v\n", err)
		os.Exit(1)
	}
}
