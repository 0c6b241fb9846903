package main

import (
	"os"

	"github.com/xy-planning-network/checkpoint/cmd/checkpoint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
