// Command cryptkeeper is the CLI front end for the cryptkeeper library:
// encrypt/decrypt files and manage keys from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/hambosto/cryptkeeper/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
