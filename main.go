package main

import (
	"os"

	"github.com/gopak/loadorder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
