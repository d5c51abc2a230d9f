// Command diagdump prints one view of a diagnostics endpoint to stdout.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(nil, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
