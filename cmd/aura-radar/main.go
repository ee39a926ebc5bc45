package main

import (
	"fmt"
	"os"

	"aura-radar/cmd/aura-radar/commands"
)

func main() {
	if err := commands.NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
