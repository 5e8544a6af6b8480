package main

import (
	"os"
)

func main() {
	// Cobra prints the error and usage itself
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
