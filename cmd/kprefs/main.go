package main

import (
	"os"

	"github.com/kairosolo/kprefs/cmd/kprefs/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
