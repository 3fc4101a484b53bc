// The main package for the fff executable.
package main

import (
	"github.com/JakeFAU/fff/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
