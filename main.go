// The main package for the bbdl executable.
package main

import (
	"github.com/podarc/bbdl/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
