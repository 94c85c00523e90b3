// Command mpask is the single-command variant of `mpipe ask`.
package main

import (
	"fmt"
	"os"

	"github.com/germanamz/mpipe/cmd/internal/askcmd"
)

func main() {
	if err := askcmd.Run("mpask", os.Args[1:], true); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
