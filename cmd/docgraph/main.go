package main

import (
	"os"

	"github.com/dan-solli/docgraph/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
