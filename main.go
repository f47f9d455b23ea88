package main

import (
	"os"

	"github.com/jaeles-project/gofuzzer/cmd"
	"github.com/jaeles-project/gofuzzer/core"
)

func main() {
	if err := cmd.Execute(); err != nil {
		core.Logger.Error(err)
		os.Exit(1)
	}
}
