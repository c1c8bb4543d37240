// Command devrs manages a containerized developer workstation: a shared
// core environment container, per-project application containers, and an
// ad-hoc static file server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/devrs/devrs/cmd/devrs/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "devrs: aborted")
		} else {
			fmt.Fprintln(os.Stderr, "devrs:", err)
		}
		os.Exit(1)
	}
}
