package main

import (
	"os"

	"github.com/quitq-dev/quitq/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
