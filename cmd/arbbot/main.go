package main

import (
	"os"

	"github.com/rustyeddy/arbbot/cmd/arbbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
