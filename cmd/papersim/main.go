package main

import (
	"os"

	"github.com/rustyeddy/papersim/cmd/papersim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
