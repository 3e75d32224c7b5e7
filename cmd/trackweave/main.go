// Command trackweave is the entrypoint for the TrackWeave audio pipeline CLI.
package main

import (
	"os"

	"github.com/backmassage/trackweave/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
