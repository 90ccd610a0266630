// Command swiftype is a command line client for the Swiftype App Search API.
package main

import (
	"fmt"
	"os"

	"github.com/kailas-cloud/swiftype"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps client error kinds to process exit codes.
func exitCode(err error) int {
	switch swiftype.KindOf(err) {
	case swiftype.KindConfiguration:
		return 2
	case swiftype.KindUnauthorized:
		return 3
	default:
		return 1
	}
}
