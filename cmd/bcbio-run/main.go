package main

import (
	"fmt"
	"os"

	"github.com/chapmanb/bcbio.run/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bcbio-run: %v\n", err)
		os.Exit(1)
	}
}
