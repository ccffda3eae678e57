// Command kvfmt formats, checks, queries and converts KeyValues files.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "kvfmt:", err)
		os.Exit(1)
	}
}
