package main

import (
	"os"

	"defi-academy/internal/app/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
