// main package for the voice-studio CLI
package main

import (
	"fmt"
	"os"
)

func main() {
	err := newRootCommand(bootstrap).Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
