package main

import (
	"os"

	"github.com/agrimarket/agrimarket/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
