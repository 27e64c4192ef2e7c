package main

import (
	"os"

	"github.com/rustyeddy/tradelog/cmd/tradelog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
