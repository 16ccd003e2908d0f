package main

import (
	"log"
	"os"

	"github.com/TFMV/treescan/cmd"
)

func main() {
	// Configure logger for detailed output.
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Set up a deferred function to recover from panics.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v", r)
			os.Exit(1)
		}
	}()

	if err := cmd.Execute(); err != nil {
		// cobra already printed the failure; exit non-zero per contract.
		os.Exit(1)
	}
}
