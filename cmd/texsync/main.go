package main

import (
	"os"

	"github.com/texsync/texsync/cmd/texsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
