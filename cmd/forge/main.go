package main

import (
	"fmt"
	"os"

	"github.com/jwebster45206/story-forge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
