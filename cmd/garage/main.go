// Command garage is the operator CLI for the collection tracker. It works
// directly on the configured CSV stores through the same service the daemon
// uses.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
