// autoexp expands an autoexp.dat template and installs the result in the
// autoexp.dat files of the installed debuggers
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
