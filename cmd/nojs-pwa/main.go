package main

import (
	"os"

	"github.com/vcrobe/nojs-pwa/cmd/nojs-pwa/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
