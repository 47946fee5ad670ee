package main

import (
	"os"

	"github.com/paweenawitch/Net-Net-Global-Scanner/cmd/netnet/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
