package main

import (
	"os"

	"github.com/forki/fs-swim/pkg/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
