package main

import (
	"os"

	"github.com/javelinlab/javelin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
