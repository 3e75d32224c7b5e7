package display

import (
	"fmt"
	"os"

	"github.com/backmassage/trackweave/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` _____               _   __        __
|_   _| __ __ _  ___| | _\ \      / /__  __ ___   _____
  | || '__/ _`+"`"+` |/ __| |/ /\ \ /\ / / _ \/ _`+"`"+` \ \ / / _ \
  | || | | (_| | (__|   <  \ V  V /  __/ (_| |\ V /  __/
  |_||_|  \__,_|\___|_|\_\  \_/\_/ \___|\__,_| \_/ \___|
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
