// Command hfpredict is the CLI front end for the hfprop propagation
// engine: it loads the bundled coefficient store, runs predict() for
// a tx/rx pair and frequency list, and prints the result either as a
// tabulated report or as JSON.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
