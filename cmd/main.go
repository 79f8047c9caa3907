package main

import (
	"os"

	"ethmumbai-maxi/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
