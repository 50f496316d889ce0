// Command valet builds package-oriented C/C++ projects.
package main

import (
	"fmt"
	"os"

	"valet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
